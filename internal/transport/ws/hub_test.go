package ws

import (
	"testing"

	"github.com/dating-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *client {
	return &client{userID: userID, send: make(chan event, sendBuffer)}
}

func TestHub_JoinLeave(t *testing.T) {
	h := NewHub()
	c1 := newTestClient("u1")
	c2 := newTestClient("u2")

	h.join("m1", c1)
	h.join("m1", c2)
	assert.Equal(t, 2, h.roomSize("m1"))

	h.leave("m1", c1)
	assert.Equal(t, 1, h.roomSize("m1"))

	h.leave("m1", c2)
	assert.Equal(t, 0, h.roomSize("m1"))
}

func TestHub_Broadcast_ReachesAllRoomMembers(t *testing.T) {
	h := NewHub()
	c1 := newTestClient("u1")
	c2 := newTestClient("u2")
	other := newTestClient("u3")
	h.join("m1", c1)
	h.join("m1", c2)
	h.join("m2", other)

	m := &domain.Message{MatchID: "m1", MessageID: "msg1", SenderID: "u1", Content: "hi"}
	h.Broadcast("m1", m)

	for _, c := range []*client{c1, c2} {
		select {
		case ev := <-c.send:
			assert.Equal(t, eventMessage, ev.Type)
			require.NotNil(t, ev.Message)
			assert.Equal(t, "msg1", ev.Message.MessageID)
		default:
			t.Fatalf("client %s did not receive broadcast", c.userID)
		}
	}

	select {
	case <-other.send:
		t.Fatal("client in another room received broadcast")
	default:
	}
}

func TestHub_Broadcast_SkipsFullBuffers(t *testing.T) {
	h := NewHub()
	c := &client{userID: "u1", send: make(chan event)} // unbuffered, never read
	h.join("m1", c)

	// Must not block.
	h.Broadcast("m1", &domain.Message{MatchID: "m1", MessageID: "msg1"})
}

func TestHub_Broadcast_EmptyRoomIsNoop(t *testing.T) {
	h := NewHub()
	h.Broadcast("missing", &domain.Message{MatchID: "missing"})
	assert.Equal(t, 0, h.roomSize("missing"))
}
