package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteralOnly(t *testing.T) {
	tpl, err := Parse([]byte("just plain text"))
	require.NoError(t, err)
	require.Len(t, tpl.Nodes, 1)
	lit, ok := tpl.Nodes[0].(*Literal)
	require.True(t, ok)
	assert.Equal(t, "just plain text", lit.Text)
}

func TestParseVariable(t *testing.T) {
	tpl, err := Parse([]byte("hello {var:name}!"))
	require.NoError(t, err)
	require.Len(t, tpl.Nodes, 3)
	assert.Equal(t, "hello ", tpl.Nodes[0].(*Literal).Text)
	assert.Equal(t, "name", tpl.Nodes[1].(*Variable).Path)
	assert.Equal(t, "!", tpl.Nodes[2].(*Literal).Text)
}

func TestParseMathCompiles(t *testing.T) {
	tpl, err := Parse([]byte("{math: 2 + 3 * 4}"))
	require.NoError(t, err)
	require.Len(t, tpl.Nodes, 1)
	m, ok := tpl.Nodes[0].(*Math)
	require.True(t, ok)
	require.NotNil(t, m.Compiled)
}

func TestParseMalformedMathReemitsLiteral(t *testing.T) {
	tpl, err := Parse([]byte("broken {math: 1 + 2"))
	require.NoError(t, err)
	require.Len(t, tpl.Nodes, 2)
	assert.Equal(t, "broken ", tpl.Nodes[0].(*Literal).Text)
	assert.Equal(t, "{math: 1 + 2", tpl.Nodes[1].(*Literal).Text)
}

func TestParseMathInvalidExpressionKeepsNilCompiled(t *testing.T) {
	tpl, err := Parse([]byte("{math: 2 + }"))
	require.NoError(t, err)
	require.Len(t, tpl.Nodes, 1)
	m, ok := tpl.Nodes[0].(*Math)
	require.True(t, ok)
	assert.Equal(t, " 2 + ", m.Source)
	assert.Nil(t, m.Compiled)
}

func TestParseIfOpenInvalidCaseKeepsNilCond(t *testing.T) {
	tpl, err := Parse([]byte(`<if case="2 + ">bad</if>`))
	require.NoError(t, err)
	ifNode, ok := tpl.Nodes[0].(*If)
	require.True(t, ok)
	require.Len(t, ifNode.Cases, 1)
	assert.Nil(t, ifNode.Cases[0].Cond)
}

func TestParseInlineIfInvalidCaseKeepsNilCond(t *testing.T) {
	tpl, err := Parse([]byte(`{if case="2 + " true="many" false="one"}`))
	require.NoError(t, err)
	node, ok := tpl.Nodes[0].(*InlineIf)
	require.True(t, ok)
	assert.Nil(t, node.Cond)
}

func TestParseSuperVariableInvalidMathChildKeepsNilCompiled(t *testing.T) {
	tpl, err := Parse([]byte(`{svar: greeting, {math: 2 + }}`))
	require.NoError(t, err)
	sv, ok := tpl.Nodes[0].(*SuperVariable)
	require.True(t, ok)
	require.Len(t, sv.Children, 1)
	m, ok := sv.Children[0].(*Math)
	require.True(t, ok)
	assert.Nil(t, m.Compiled)
}

func TestParseLoopWithAttributes(t *testing.T) {
	tpl, err := Parse([]byte(`<loop set="items" value="item" sort="descend">{var:item}</loop>`))
	require.NoError(t, err)
	require.Len(t, tpl.Nodes, 1)
	loop, ok := tpl.Nodes[0].(*Loop)
	require.True(t, ok)
	assert.Equal(t, "items", loop.Set)
	assert.Equal(t, "item", loop.Value)
	assert.True(t, loop.HasSort)
	assert.True(t, loop.SortDesc)
	require.Len(t, loop.Body, 1)
}

func TestParseIfOpenRecordsCaseSource(t *testing.T) {
	tpl, err := Parse([]byte(`<if case="{var:n} > 1">many</if>`))
	require.NoError(t, err)
	ifNode, ok := tpl.Nodes[0].(*If)
	require.True(t, ok)
	require.Len(t, ifNode.Cases, 1)
	assert.Equal(t, "{var:n} > 1", ifNode.Cases[0].CondSource)
}

func TestParseIfWithElseBranch(t *testing.T) {
	tpl, err := Parse([]byte(`<if case="{var:n} > 1">many</if>`))
	require.NoError(t, err)
	_ = tpl

	tpl2, err := Parse([]byte(`<if case="{var:n} > 1">many<else>one</if>`))
	require.NoError(t, err)
	ifNode, ok := tpl2.Nodes[0].(*If)
	require.True(t, ok)
	require.Len(t, ifNode.Cases, 2)
	assert.True(t, ifNode.Cases[1].Cond.Empty())
}

func TestParseInlineIf(t *testing.T) {
	tpl, err := Parse([]byte(`{if case="{var:n} > 1" true="many" false="one"}`))
	require.NoError(t, err)
	node, ok := tpl.Nodes[0].(*InlineIf)
	require.True(t, ok)
	require.Len(t, node.TrueNodes, 1)
	require.Len(t, node.FalseNodes, 1)
	assert.Equal(t, "many", node.TrueNodes[0].(*Literal).Text)
	assert.Equal(t, "one", node.FalseNodes[0].(*Literal).Text)
}

func TestParseInlineIfBranchWithNestedTag(t *testing.T) {
	tpl, err := Parse([]byte(`{if case="{var:n} > 1" true="{var:name}!" false="none"}`))
	require.NoError(t, err)
	node, ok := tpl.Nodes[0].(*InlineIf)
	require.True(t, ok)
	require.Len(t, node.TrueNodes, 2)
	v, ok := node.TrueNodes[0].(*Variable)
	require.True(t, ok)
	assert.Equal(t, "name", v.Path)
	assert.Equal(t, "!", node.TrueNodes[1].(*Literal).Text)
}

func TestParseNestedLoop(t *testing.T) {
	tpl, err := Parse([]byte(`<loop set="rows" value="row"><loop set="row" value="cell">{var:cell}</loop></loop>`))
	require.NoError(t, err)
	outer, ok := tpl.Nodes[0].(*Loop)
	require.True(t, ok)
	require.Len(t, outer.Body, 1)
	_, ok = outer.Body[0].(*Loop)
	assert.True(t, ok)
}

func TestParseUnclosedLoopFails(t *testing.T) {
	_, err := Parse([]byte(`<loop set="items" value="item">{var:item}`))
	assert.Error(t, err)
}

func TestParseSuperVariable(t *testing.T) {
	tpl, err := Parse([]byte(`{svar: greeting, {var:name}, {math: 1 + 1}}`))
	require.NoError(t, err)
	sv, ok := tpl.Nodes[0].(*SuperVariable)
	require.True(t, ok)
	assert.Equal(t, "greeting", sv.Path)
	require.Len(t, sv.Children, 2)
	v, ok := sv.Children[0].(*Variable)
	require.True(t, ok)
	assert.Equal(t, "name", v.Path)
	m, ok := sv.Children[1].(*Math)
	require.True(t, ok)
	require.NotNil(t, m.Compiled)
}
