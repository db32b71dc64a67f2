// Package debugproto implements the Debug Inspection Protocol (spec §6.5):
// a JSON request/response protocol over a local transport, concretely a
// websocket server here (grounded on the teacher's
// base/websocket/example/server), for external tooling to inspect and drive
// a running Pipeline. Handler serves get_layout_tree, get_node_layout,
// get_scroll_states, get_scrollable_nodes, get_scrollbar_info,
// scroll_node_to, scroll_node_by and get_state; every other method name,
// including the remaining constants declared below, gets an error response.
package debugproto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Command is one inbound debug-protocol request (spec §6.5 command set).
type Command struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the corresponding reply, echoing the request id.
type Response struct {
	ID     string      `json:"id"`
	Result any         `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewRequestID mints a request id the way the debug client is expected to,
// for tests and the demo CLI (spec §6.5 requests are client-id'd; the
// server just echoes them back).
func NewRequestID() string { return uuid.NewString() }

// Methods is the full §6.5 command surface, named for client-side dispatch.
const (
	MethodGetDOM               = "get_dom"
	MethodGetDOMTree           = "get_dom_tree"
	MethodGetLayoutTree        = "get_layout_tree"
	MethodGetDisplayList       = "get_display_list"
	MethodGetNodeLayout        = "get_node_layout"
	MethodGetNodeCSSProperties = "get_node_css_properties"
	MethodGetScrollStates      = "get_scroll_states"
	MethodGetScrollableNodes   = "get_scrollable_nodes"
	MethodGetScrollbarInfo     = "get_scrollbar_info"
	MethodScrollNodeTo         = "scroll_node_to"
	MethodScrollNodeBy         = "scroll_node_by"
	MethodClick                = "click"
	MethodMouseMove            = "mouse_move"
	MethodMouseDown            = "mouse_down"
	MethodMouseUp              = "mouse_up"
	MethodDoubleClick          = "double_click"
	MethodKeyDown              = "key_down"
	MethodKeyUp                = "key_up"
	MethodTextInput            = "text_input"
	MethodWaitFrame            = "wait_frame"
	MethodWait                 = "wait"
	MethodGetState             = "get_state"
	MethodTakeScreenshot       = "take_screenshot"
)
