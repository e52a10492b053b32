package board

import (
	"strings"

	"smart-hr/internal/domain/application"

	"github.com/google/uuid"
)

// Intent is a request to move one application to another status.
type Intent struct {
	ApplicationID uuid.UUID          `json:"application_id"`
	From          application.Status `json:"from"`
	To            application.Status `json:"to"`
}

// ResolveDrop converts a finished drag into at most one status-change
// intent. A drop onto a column uses that column's status; a drop onto a
// card inherits the card's status. No target, an unknown card, or an
// unchanged status yields no intent.
func ResolveDrop(apps []application.Application, activeID, overID string) (Intent, bool) {
	activeID = strings.TrimSpace(activeID)
	overID = strings.TrimSpace(overID)
	if activeID == "" || overID == "" {
		return Intent{}, false
	}

	active, ok := find(apps, activeID)
	if !ok {
		return Intent{}, false
	}

	var target application.Status
	if s := application.Status(overID); s.Valid() {
		target = s
	} else {
		over, ok := find(apps, overID)
		if !ok {
			return Intent{}, false
		}
		target = over.Status
	}

	if active.Status == target {
		return Intent{}, false
	}
	return Intent{ApplicationID: active.ID, From: active.Status, To: target}, true
}

// ResolveDragEnd is ResolveDrop for a controller event.
func ResolveDragEnd(apps []application.Application, ev DragEnd) (Intent, bool) {
	if ev.Canceled || ev.Over == nil {
		return Intent{}, false
	}
	return ResolveDrop(apps, ev.ActiveID, ev.Over.ID)
}

func find(apps []application.Application, id string) (application.Application, bool) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return application.Application{}, false
	}
	for _, a := range apps {
		if a.ID == uid {
			return a, true
		}
	}
	return application.Application{}, false
}
