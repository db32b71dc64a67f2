package debugproto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/debugproto"
	"github.com/cogentlayout/corelayout/internal/scrollmgr"
	"github.com/cogentlayout/corelayout/pkg/corelayout"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

func leaf(id styledom.NodeID, w, h float32) *styledom.Node {
	return &styledom.Node{
		ID: id, Kind: styledom.KindElement,
		Style: styles.Style{Display: styles.DisplayBlock, Size: styles.Sizes{Width: w, Height: h}},
	}
}

// TestHandle_GetLayoutTreeReturnsNaturallyOrderedNodes exercises the
// get_layout_tree command end-to-end through a real Pipeline.Frame, checking
// that the result is ordered by natural (numeric) node id, not lexical.
func TestHandle_GetLayoutTreeReturnsNaturallyOrderedNodes(t *testing.T) {
	p := corelayout.New(nil, nil, config.Default())
	dom := &styledom.Dom{Root: &styledom.Node{
		ID: 1, Kind: styledom.KindElement,
		Style:    styles.Style{Display: styles.DisplayBlock, Size: styles.Sizes{WidthAuto: true, HeightAuto: true}},
		Children: []*styledom.Node{leaf(2, 50, 50), leaf(3, 50, 50)},
	}}
	_, err := p.Frame(dom, geom32.Vec2(800, 600))
	require.NoError(t, err)

	h := debugproto.NewHandler(p)
	resp := h.Handle(debugproto.Command{ID: "req-1", Method: debugproto.MethodGetLayoutTree})
	require.Empty(t, resp.Error)
	require.Equal(t, "req-1", resp.ID)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	assert.GreaterOrEqual(t, len(rows), 3, "root plus two children")
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1]["node_id"].(float64), rows[i]["node_id"].(float64), "rows ascend by numeric node id")
	}
}

// TestHandle_UnsupportedMethodReturnsErrorNotPanic covers spec §7's
// "malformed/unknown request -> error response, connection survives."
func TestHandle_UnsupportedMethodReturnsErrorNotPanic(t *testing.T) {
	p := corelayout.New(nil, nil, config.Default())
	h := debugproto.NewHandler(p)

	var resp debugproto.Response
	assert.NotPanics(t, func() {
		resp = h.Handle(debugproto.Command{ID: "bad", Method: "not_a_real_method"})
	})
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, "bad", resp.ID)
}

// TestHandle_ScrollNodeToEnqueuesProgrammaticInput checks that scroll_node_to
// reaches the Scroll Manager's input queue as a SourceProgrammatic input
// (spec §4.3.1: programmatic scroll-to calls are never compressed away).
func TestHandle_ScrollNodeToEnqueuesProgrammaticInput(t *testing.T) {
	p := corelayout.New(nil, nil, config.Default())
	dom := &styledom.Dom{Root: &styledom.Node{
		ID:    1,
		Kind:  styledom.KindElement,
		Style: styles.Style{Display: styles.DisplayBlock, Size: styles.Sizes{Width: 200, Height: 100}, Overflow: styles.Overflows{Y: styles.OverflowScroll}},
		Children: []*styledom.Node{
			{ID: 2, Kind: styledom.KindElement, Style: styles.Style{
				Display: styles.DisplayBlock,
				Size:    styles.Sizes{WidthAuto: true, Height: 500},
				Margin:  styles.Edges{},
			}},
		},
	}}
	_, err := p.Frame(dom, geom32.Vec2(800, 600))
	require.NoError(t, err)

	h := debugproto.NewHandler(p)
	params, err := json.Marshal(map[string]any{"NodeID": 0, "X": 0, "Y": 40, "Smooth": false})
	require.NoError(t, err)

	resp := h.Handle(debugproto.Command{ID: "scroll-1", Method: debugproto.MethodScrollNodeTo, Params: params})
	assert.Empty(t, resp.Error)

	item, ok := p.Scroll.Queue.TryNext()
	require.True(t, ok, "the scroll-to call must have been enqueued")
	assert.Equal(t, scrollmgr.SourceProgrammatic, item.Source)
	assert.Equal(t, float32(40), item.Target.Y)
}

// TestHandle_GetStateIsAlwaysReady is a smoke test for the trivial get_state
// command every debug client polls first.
func TestHandle_GetStateIsAlwaysReady(t *testing.T) {
	p := corelayout.New(nil, nil, config.Default())
	h := debugproto.NewHandler(p)
	resp := h.Handle(debugproto.Command{ID: "s", Method: debugproto.MethodGetState})
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]string{"state": "ready"}, resp.Result)
}
