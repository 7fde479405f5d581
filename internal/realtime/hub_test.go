package realtime

import (
	"testing"

	"go.uber.org/zap"

	"sawit-ops/backend/internal/model"
)

func testClient(hub *Hub, userID, companyID string, role model.Role, buffer int) *Client {
	return NewClient(hub, nil, userID, companyID, "dev-1", role, buffer, zap.NewNop())
}

func drain(c *Client) []Event {
	var out []Event
	for {
		select {
		case evt := <-c.send:
			out = append(out, evt)
		default:
			return out
		}
	}
}

func TestPublishChannelFiltering(t *testing.T) {
	hub := NewHub(zap.NewNop())
	satpam := testClient(hub, "u-satpam", "co-1", model.RoleSatpam, 8)
	mandor := testClient(hub, "u-mandor", "co-1", model.RoleMandor, 8)
	hub.Register(satpam)
	hub.Register(mandor)

	hub.Publish(Event{Type: "gate_check:created", Channel: ChannelGateCheck, CompanyID: "co-1"})
	hub.Publish(Event{Type: "harvest:created", Channel: ChannelHarvest, CompanyID: "co-1"})

	if got := drain(satpam); len(got) != 1 || got[0].Type != "gate_check:created" {
		t.Errorf("satpam got %v, want only the gate event", got)
	}
	if got := drain(mandor); len(got) != 1 || got[0].Type != "harvest:created" {
		t.Errorf("mandor got %v, want only the harvest event", got)
	}
}

func TestPublishCompanyIsolation(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ours := testClient(hub, "u-1", "co-1", model.RoleSatpam, 8)
	theirs := testClient(hub, "u-2", "co-2", model.RoleSatpam, 8)
	hub.Register(ours)
	hub.Register(theirs)

	hub.Publish(Event{Type: "gate_check:created", Channel: ChannelGateCheck, CompanyID: "co-1"})

	if got := drain(ours); len(got) != 1 {
		t.Errorf("same-company client got %d events, want 1", len(got))
	}
	if got := drain(theirs); len(got) != 0 {
		t.Errorf("other-company client got %d events, want 0", len(got))
	}
}

func TestPublishOwnerScoping(t *testing.T) {
	hub := NewHub(zap.NewNop())
	owner := testClient(hub, "mandor-1", "co-1", model.RoleMandor, 8)
	other := testClient(hub, "mandor-2", "co-1", model.RoleMandor, 8)
	hub.Register(owner)
	hub.Register(other)

	hub.Publish(Event{
		Type:      "harvest:approved",
		Channel:   ChannelHarvest,
		CompanyID: "co-1",
		OwnerID:   "mandor-1",
	})

	if got := drain(owner); len(got) != 1 {
		t.Errorf("owner got %d events, want 1", len(got))
	}
	if got := drain(other); len(got) != 0 {
		t.Errorf("non-owner got %d events, want 0", len(got))
	}
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub(zap.NewNop())
	slow := testClient(hub, "u-1", "co-1", model.RoleSatpam, 1)
	hub.Register(slow)

	// Second publish overflows the buffer; it must drop, not hang.
	hub.Publish(Event{Type: "gate_check:created", Channel: ChannelGateCheck, CompanyID: "co-1"})
	hub.Publish(Event{Type: "gate_check:exit", Channel: ChannelGateCheck, CompanyID: "co-1"})

	if got := drain(slow); len(got) != 1 {
		t.Errorf("slow client got %d events, want the 1 that fit", len(got))
	}
}

func TestPublishStampsSentAt(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := testClient(hub, "u-1", "co-1", model.RoleSatpam, 1)
	hub.Register(c)

	hub.Publish(Event{Type: "gate_check:created", Channel: ChannelGateCheck, CompanyID: "co-1"})
	got := drain(c)
	if len(got) != 1 || got[0].SentAt.IsZero() {
		t.Error("published event has no sent_at timestamp")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := testClient(hub, "u-1", "co-1", model.RoleSatpam, 1)
	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	hub.Unregister(c) // must not panic on double close
	if hub.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", hub.ClientCount())
	}
}

func TestCloseAll(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := testClient(hub, "u-1", "co-1", model.RoleSatpam, 1)
	b := testClient(hub, "u-2", "co-1", model.RoleManager, 1)
	hub.Register(a)
	hub.Register(b)

	hub.CloseAll()
	if hub.ClientCount() != 0 {
		t.Errorf("client count after CloseAll = %d", hub.ClientCount())
	}
	if _, open := <-a.send; open {
		t.Error("send channel still open after CloseAll")
	}
}
