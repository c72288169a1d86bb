package signal

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dkeye/Assist/internal/app/orch"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/dkeye/Assist/internal/testutil"
)

func newTestController(t *testing.T) *SignalWSController {
	t.Helper()
	return NewSignalWSController(orch.New(nil), Options{})
}

func attach(t *testing.T, ctl *SignalWSController, id domain.ConnID) *testutil.FakeSignal {
	t.Helper()
	sig := testutil.NewFakeSignal()
	conn, err := domain.NewConnection(id, "")
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	ctl.Orch.Connect(conn, sig, func() {})
	return sig
}

func send(ctl *SignalWSController, id domain.ConnID, raw string) {
	ctl.handleSignal(id, []byte(raw))
}

func TestOfferRelayedToPeerOnly(t *testing.T) {
	ctl := newTestController(t)
	a := attach(t, ctl, "A")
	b := attach(t, ctl, "B")

	send(ctl, "A", `{"type":"register","role":"customer","sessionId":"room1"}`)
	send(ctl, "B", `{"type":"register","role":"agent","sessionId":"room1"}`)
	send(ctl, "A", `{"type":"offer","sessionId":"room1","offer":{"sdp":"v=0..."}}`)

	if a.Len() != 0 {
		t.Errorf("sender received %d frames", a.Len())
	}
	got := b.Messages(t)
	want := []map[string]any{{"type": "offer", "offer": map[string]any{"sdp": "v=0..."}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("B got %v, want %v", got, want)
	}
}

func TestControlEventForwardedUnchanged(t *testing.T) {
	ctl := newTestController(t)
	attach(t, ctl, "A")
	b := attach(t, ctl, "B")
	send(ctl, "A", `{"type":"register","role":"customer","sessionId":"room1"}`)
	send(ctl, "B", `{"type":"register","role":"agent","sessionId":"room1"}`)

	send(ctl, "A", `{"type":"control-event","sessionId":"room1","event":{"type":"mouse","subtype":"mouseMove","x":10,"y":20}}`)

	got := b.Messages(t)
	want := []map[string]any{{
		"type":  "control-event",
		"event": map[string]any{"type": "mouse", "subtype": "mouseMove", "x": float64(10), "y": float64(20)},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("B got %v, want %v", got, want)
	}
}

func TestControlEventKeepsUnknownFields(t *testing.T) {
	ctl := newTestController(t)
	b := attach(t, ctl, "B")
	send(ctl, "B", `{"type":"register","role":"agent","sessionId":"room1"}`)

	send(ctl, "A", `{"type":"control-event","sessionId":"room1","event":{"type":"keyboard","subtype":"keyDown","key":"a","modifiers":["shift"],"x":1.25}}`)

	got := b.Messages(t)
	if len(got) != 1 {
		t.Fatalf("B got %d messages", len(got))
	}
	ev := got[0]["event"].(map[string]any)
	if ev["key"] != "a" || ev["x"] != 1.25 || !reflect.DeepEqual(ev["modifiers"], []any{"shift"}) {
		t.Errorf("event = %v", ev)
	}
}

func TestAnswerToLonelySessionDeliversNothing(t *testing.T) {
	ctl := newTestController(t)
	a := attach(t, ctl, "A")
	send(ctl, "A", `{"type":"register","role":"customer","sessionId":"room2"}`)

	send(ctl, "A", `{"type":"answer","sessionId":"room2","answer":{"type":"answer","sdp":"v=0"}}`)

	if a.Len() != 0 {
		t.Errorf("A received %d frames, want none", a.Len())
	}
}

func TestIceCandidateAndDimensionsShapes(t *testing.T) {
	ctl := newTestController(t)
	attach(t, ctl, "A")
	b := attach(t, ctl, "B")
	send(ctl, "B", `{"type":"register","role":"agent","sessionId":"room1"}`)

	send(ctl, "A", `{"type":"ice-candidate","sessionId":"room1","candidate":{"candidate":"candidate:1 1 udp 2130706431 192.168.1.2 54321 typ host","sdpMid":"0","sdpMLineIndex":0}}`)
	send(ctl, "A", `{"type":"app-dimensions","sessionId":"room1","width":1280,"height":720}`)

	got := b.Messages(t)
	if len(got) != 2 {
		t.Fatalf("B got %d messages, want 2", len(got))
	}
	if got[0]["type"] != "ice-candidate" || got[0]["candidate"].(map[string]any)["sdpMid"] != "0" {
		t.Errorf("candidate message = %v", got[0])
	}
	if _, leaked := got[0]["sessionId"]; leaked {
		t.Errorf("sessionId should not be forwarded: %v", got[0])
	}
	want := map[string]any{"type": "app-dimensions", "width": float64(1280), "height": float64(720)}
	if !reflect.DeepEqual(got[1], want) {
		t.Errorf("dimensions = %v, want %v", got[1], want)
	}
}

func TestSessionIDTakenFromMessage(t *testing.T) {
	ctl := newTestController(t)
	a := attach(t, ctl, "A")
	b := attach(t, ctl, "B")
	c := attach(t, ctl, "C")
	send(ctl, "A", `{"type":"register","role":"customer","sessionId":"room1"}`)
	send(ctl, "B", `{"type":"register","role":"agent","sessionId":"room1"}`)
	send(ctl, "C", `{"type":"register","role":"agent","sessionId":"room2"}`)

	send(ctl, "A", `{"type":"offer","sessionId":"room2","offer":{"sdp":"x"}}`)

	if b.Len() != 0 {
		t.Errorf("member of sender's own session got %d frames", b.Len())
	}
	if c.Len() != 1 {
		t.Errorf("member of addressed session got %d frames, want 1", c.Len())
	}
	if a.Len() != 0 {
		t.Errorf("sender got %d frames", a.Len())
	}
}

func TestEndSessionBroadcastsToEveryone(t *testing.T) {
	ctl := newTestController(t)
	a := attach(t, ctl, "A")
	b := attach(t, ctl, "B")
	send(ctl, "A", `{"type":"register","role":"customer","sessionId":"abc"}`)
	send(ctl, "B", `{"type":"register","role":"agent","sessionId":"abc"}`)

	send(ctl, "A", `{"type":"end-session","sessionId":"abc"}`)

	want := []map[string]any{{"type": "session-ended", "sessionId": "abc", "reason": "customer_stopped"}}
	if got := a.Messages(t); !reflect.DeepEqual(got, want) {
		t.Errorf("A got %v, want %v", got, want)
	}
	if got := b.Messages(t); !reflect.DeepEqual(got, want) {
		t.Errorf("B got %v, want %v", got, want)
	}

	// A left the room; B is still there and receives nothing back from A.
	send(ctl, "B", `{"type":"offer","sessionId":"abc","offer":{"sdp":"again"}}`)
	if a.Len() != 1 {
		t.Errorf("A got %d frames after leaving, want 1", a.Len())
	}
}

func TestMalformedAndUnknownMessagesDropped(t *testing.T) {
	ctl := newTestController(t)
	a := attach(t, ctl, "A")
	b := attach(t, ctl, "B")
	send(ctl, "A", `{"type":"register","role":"customer","sessionId":"room1"}`)
	send(ctl, "B", `{"type":"register","role":"agent","sessionId":"room1"}`)

	bad := []string{
		`not json`,
		`{"type":"launch-missiles","sessionId":"room1"}`,
		`{"sessionId":"room1","offer":{}}`,
		`{"type":"offer","offer":{"sdp":"x"}}`,
		`{"type":"offer","sessionId":"","offer":{"sdp":"x"}}`,
		`{"type":"offer","sessionId":"room1"}`,
		`{"type":"offer","sessionId":"room1","offer":null}`,
		`{"type":"control-event","sessionId":"room1"}`,
		`{"type":"app-dimensions","sessionId":"room1","width":10}`,
		`{"type":"register","role":"agent"}`,
		`{"type":"end-session"}`,
		fmt.Sprintf(`{"type":"ice-candidate","sessionId":"%0300d","candidate":{}}`, 1),
	}
	for _, raw := range bad {
		send(ctl, "A", raw)
	}

	if a.Len() != 0 || b.Len() != 0 {
		t.Fatalf("malformed input produced frames: a=%d b=%d", a.Len(), b.Len())
	}
	if sid, _ := ctl.Orch.SessionOf("A"); sid != "room1" {
		t.Errorf("A session changed to %q", sid)
	}
}

func TestPerSenderOrderPreserved(t *testing.T) {
	ctl := newTestController(t)
	attach(t, ctl, "A")
	b := attach(t, ctl, "B")
	c := attach(t, ctl, "C")
	send(ctl, "A", `{"type":"register","sessionId":"room1"}`)
	send(ctl, "B", `{"type":"register","sessionId":"room1"}`)
	send(ctl, "C", `{"type":"register","sessionId":"room1"}`)

	const n = 50
	send(ctl, "A", `{"type":"offer","sessionId":"room1","offer":{"sdp":"o"}}`)
	for i := 0; i < n; i++ {
		send(ctl, "A", fmt.Sprintf(`{"type":"ice-candidate","sessionId":"room1","candidate":{"seq":%d}}`, i))
	}

	for name, sig := range map[string]*testutil.FakeSignal{"B": b, "C": c} {
		got := sig.Messages(t)
		if len(got) != n+1 {
			t.Fatalf("%s got %d messages, want %d", name, len(got), n+1)
		}
		if got[0]["type"] != "offer" {
			t.Errorf("%s first message = %v, want offer", name, got[0]["type"])
		}
		for i := 0; i < n; i++ {
			seq := got[i+1]["candidate"].(map[string]any)["seq"].(float64)
			if int(seq) != i {
				t.Fatalf("%s message %d has seq %v", name, i+1, seq)
			}
		}
	}
}

func TestReRegisterLeavesPreviousSession(t *testing.T) {
	ctl := newTestController(t)
	a := attach(t, ctl, "A")
	attach(t, ctl, "B")
	send(ctl, "A", `{"type":"register","role":"agent","sessionId":"room1"}`)
	send(ctl, "A", `{"type":"register","role":"agent","sessionId":"room2"}`)

	send(ctl, "B", `{"type":"offer","sessionId":"room1","offer":{"sdp":"x"}}`)
	if a.Len() != 0 {
		t.Errorf("A still receives room1 traffic after moving to room2")
	}
	send(ctl, "B", `{"type":"offer","sessionId":"room2","offer":{"sdp":"x"}}`)
	if a.Len() != 1 {
		t.Errorf("A got %d room2 frames, want 1", a.Len())
	}
}
