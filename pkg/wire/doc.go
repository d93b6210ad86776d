// Package wire carries drag sessions over WebSocket.
//
// The browser sends one JSON frame per pointer or drag event, naming the
// event target by its hydration ID (data-hid):
//
//	{"type":"dragstart","target":"h7"}
//	{"type":"drag","target":"h7","y":132.5}
//
// and reports element boxes with a layout frame whenever they change:
//
//	{"type":"layout","rects":{"h7":{"x":0,"y":120,"width":600,"height":40}}}
//
// The server answers with order, sorted, countdown, reload and error frames.
// Frames are text messages; each holds exactly one JSON object.
package wire
