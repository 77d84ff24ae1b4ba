package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
)

func TestHandleAppendsLogLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reservas.log")
	c := &Consumer{LogPath: path}

	summary := model.ReservationSummary{Alojamento: "Hotel Central", Checkin: "01/06/2025", Checkout: "05/06/2025", Hospedes: "2", Preco: "400€"}
	ev := NewReservationSubmittedEvent("sid-1", "Ana", model.PaymentCard, summary,
		time.Date(2025, 6, 1, 9, 30, 0, 0, time.FixedZone("WEST", 3600)))
	body, _ := json.Marshal(ev)
	for i := 0; i < 2; i++ {
		if err := c.Handle(body); err != nil {
			t.Fatal(err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, want := range []string{"[2025-06-01T08:30:00Z]", "session=sid-1", `alojamento="Hotel Central"`, "checkout=05/06/2025", "pagamento=cc"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q missing %q", lines[0], want)
		}
	}
}

func TestHandleRejectsGarbage(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "reservas.log")}
	if err := c.Handle([]byte("{")); err == nil {
		t.Fatal("expected unmarshal error")
	}
	if _, err := os.Stat(c.LogPath); !os.IsNotExist(err) {
		t.Fatal("nothing should be written for a bad message")
	}
}
