package main

import (
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

func TestCodecFor(t *testing.T) {
	if c := codecFor("msgpack"); c.Name() != "msgpack" || c.FrameType() != websocket.BinaryMessage {
		t.Fatalf("expected msgpack binary codec, got %s", c.Name())
	}
	for _, name := range []string{"", "json", "xml"} {
		if c := codecFor(name); c.Name() != "json" || c.FrameType() != websocket.TextMessage {
			t.Fatalf("codecFor(%q) should fall back to json, got %s", name, c.Name())
		}
	}
}

func TestJSONUsesCompactKeys(t *testing.T) {
	data, err := jsonCodec{}.Marshal(PickupDTO{ID: "p1", X: 1.5, Y: 2, Void: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(data); got != `{"i":"p1","x":1.5,"y":2,"v":1}` {
		t.Fatalf("unexpected pickup encoding %s", got)
	}
}

func TestMsgpackSharesJSONKeys(t *testing.T) {
	c := msgpackCodec{}
	data, err := c.Marshal(StateMsg{
		Type:   MsgState,
		Tick:   7,
		Self:   &SelfDTO{ID: "me", Bank: []ElementID{1, 10}, Capacity: 6},
		Events: []Event{{Kind: EventDiscover, Result: 10, Slot: -1}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	for _, key := range []string{"t", "n", "y", "v"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing key %q in %v", key, raw)
		}
	}

	var back StateMsg
	if err := c.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Tick != 7 || back.Self == nil || !sameBank(back.Self.Bank, []ElementID{1, 10}) {
		t.Fatalf("unexpected decoded state %+v", back)
	}
	if len(back.Events) != 1 || back.Events[0].Kind != EventDiscover || back.Events[0].Slot != -1 {
		t.Fatalf("unexpected decoded events %+v", back.Events)
	}
}

func TestClientMessageDecodes(t *testing.T) {
	var msg ClientMessage
	if err := (jsonCodec{}).Unmarshal([]byte(`{"t":"i","a":1.5,"b":1}`), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgInput || msg.Angle != 1.5 || msg.Boost != 1 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if err := (msgpackCodec{}).Unmarshal([]byte("not msgpack"), &msg); err == nil || !strings.Contains(err.Error(), "msgpack") {
		t.Fatalf("expected wrapped msgpack error, got %v", err)
	}
}
