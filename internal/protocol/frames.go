package protocol

import "github.com/adamchandra/ensime/internal/wire"

// CallID is the client-assigned integer tying a reply to a request.
type CallID int64

// RequestFrame is `(:swank-rpc form call-id)`.
type RequestFrame struct {
	Form   wire.Value
	CallID CallID
}

// ParseRequestFrame recognizes an inbound request frame, returning
// ok == false (not an error) for any other well-formed frame shape so
// the caller can decide how to report it.
func ParseRequestFrame(v wire.Value) (RequestFrame, bool) {
	list, ok := v.AsList()
	if !ok || len(list) != 3 {
		return RequestFrame{}, false
	}
	tag, ok := list[0].AsString()
	if !ok || tag != "swank-rpc" || list[0].Kind != wire.KindKeyword {
		return RequestFrame{}, false
	}
	callID, ok := list[2].AsInt()
	if !ok {
		return RequestFrame{}, false
	}
	return RequestFrame{Form: list[1], CallID: CallID(callID)}, true
}

// EncodeOKReply renders `(:return (:ok value) call-id)`.
func EncodeOKReply(value wire.Value, callID CallID) wire.Value {
	return wire.List(
		wire.Keyword("return"),
		wire.List(wire.Keyword("ok"), value),
		wire.Int(int64(callID)),
	)
}

// EncodeAbortReply renders `(:return (:abort code detail) call-id)`.
func EncodeAbortReply(kind ErrorKind, detail string, callID CallID) wire.Value {
	return wire.List(
		wire.Keyword("return"),
		wire.List(wire.Keyword("abort"), wire.Int(int64(kind)), wire.Str(detail)),
		wire.Int(int64(callID)),
	)
}

// EncodeEvent renders an unsolicited `(event-tag payload…)` frame.
func EncodeEvent(tag string, payload ...wire.Value) wire.Value {
	elems := append([]wire.Value{wire.Keyword(tag)}, payload...)
	return wire.ListOf(elems)
}
