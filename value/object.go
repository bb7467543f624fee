package value

// Object is the ordered hash-array described in spec §4.7: one insertion-
// ordered item list plus a closed-addressing chained hash index over it.
// Re-insertion of an existing key overwrites its Value in place, preserving
// its position; deletion tombstones the slot (hash zeroed) rather than
// shifting later items, and a tombstone is dropped only on the next grow.
type Object struct {
	items   []objectItem
	buckets []int32 // bucket -> index into items of the chain head, -1 if empty
	live    int     // count of non-tombstoned items
}

type objectItem struct {
	key  string
	hash uint64
	val  Value
	next int32 // next item in this bucket's chain, -1 if none
}

const tombstoneHash = 0

func newObject() *Object {
	o := &Object{}
	o.initBuckets(8)
	return o
}

func (o *Object) initBuckets(n int) {
	o.buckets = make([]int32, n)
	for i := range o.buckets {
		o.buckets[i] = -1
	}
}

func fnv1a(s string) uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	if h == tombstoneHash {
		h = 1 // never collide with the tombstone sentinel
	}
	return h
}

func (o *Object) bucketFor(h uint64) int {
	return int(h % uint64(len(o.buckets)))
}

// Get looks up key, returning its Value and whether it is present
// (tombstoned entries are treated as absent).
func (o *Object) Get(key string) (Value, bool) {
	if len(o.buckets) == 0 {
		return Value{}, false
	}
	h := fnv1a(key)
	idx := o.buckets[o.bucketFor(h)]
	for idx != -1 {
		it := &o.items[idx]
		if it.hash == h && it.key == key {
			return it.val, true
		}
		idx = it.next
	}
	return Value{}, false
}

// Set inserts or overwrites key's value, preserving insertion order on
// overwrite.
func (o *Object) Set(key string, v Value) {
	h := fnv1a(key)
	if len(o.buckets) == 0 {
		o.initBuckets(8)
	}
	b := o.bucketFor(h)
	idx := o.buckets[b]
	for idx != -1 {
		it := &o.items[idx]
		if it.hash == h && it.key == key {
			it.val = v
			return
		}
		idx = it.next
	}

	if o.live+1 > len(o.buckets) {
		o.grow()
		b = o.bucketFor(h)
	}

	o.items = append(o.items, objectItem{
		key:  key,
		hash: h,
		val:  v,
		next: o.buckets[b],
	})
	o.buckets[b] = int32(len(o.items) - 1)
	o.live++
}

// Delete tombstones key's slot if present, returning whether it was found.
// Survivors keep their indices and insertion order.
func (o *Object) Delete(key string) bool {
	if len(o.buckets) == 0 {
		return false
	}
	h := fnv1a(key)
	idx := o.buckets[o.bucketFor(h)]
	for idx != -1 {
		it := &o.items[idx]
		if it.hash == h && it.key == key {
			it.hash = tombstoneHash
			it.val = Value{}
			o.live--
			return true
		}
		idx = it.next
	}
	return false
}

// Len returns the number of live (non-tombstoned) entries.
func (o *Object) Len() int { return o.live }

// Keys returns live keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.live)
	for i := range o.items {
		if o.items[i].hash != tombstoneHash {
			keys = append(keys, o.items[i].key)
		}
	}
	return keys
}

// ForEach visits live entries in insertion order until fn returns false.
func (o *Object) ForEach(fn func(key string, v Value) bool) {
	for i := range o.items {
		if o.items[i].hash == tombstoneHash {
			continue
		}
		if !fn(o.items[i].key, o.items[i].val) {
			return
		}
	}
}

// grow rebuilds the hash index at double capacity, dropping tombstones and
// re-packing the item array, per spec §4.7 ("On resize, deleted items are
// dropped and the hash base is rebuilt").
func (o *Object) grow() {
	newCap := len(o.buckets) * 2
	if newCap == 0 {
		newCap = 8
	}
	newItems := make([]objectItem, 0, o.live)
	for i := range o.items {
		if o.items[i].hash != tombstoneHash {
			newItems = append(newItems, o.items[i])
		}
	}
	o.items = newItems
	o.initBuckets(newCap)
	for i := range o.items {
		o.items[i].next = -1
	}
	for i := range o.items {
		b := o.bucketFor(o.items[i].hash)
		o.items[i].next = o.buckets[b]
		o.buckets[b] = int32(i)
	}
}

// Clone returns a deep-ish copy (Values themselves are copied by value;
// nested Array/Object payloads are shared by reference like the rest of
// this package).
func (o *Object) Clone() *Object {
	n := &Object{
		items:   append([]objectItem(nil), o.items...),
		buckets: append([]int32(nil), o.buckets...),
		live:    o.live,
	}
	return n
}
