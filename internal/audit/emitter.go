// Package audit delivers best-effort change records to the external
// ledger service. Emission is fire-and-forget: it never blocks the
// request that triggered it and never surfaces an error to the caller.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const deliverTimeout = 10 * time.Second

// Event describes one mutation to record in the ledger.
type Event struct {
	Service     string
	Action      string
	EntityType  string
	EntityID    int
	Actor       string
	Description string
	Data        map[string]interface{}
}

type logRecord struct {
	ServiceIdentifier string                 `json:"service_identifier"`
	Action            string                 `json:"action"`
	EntityType        string                 `json:"entity_type"`
	EntityID          int                    `json:"entity_id"`
	ActorUsername     string                 `json:"actor_username"`
	ChangeDescription string                 `json:"change_description"`
	Data              map[string]interface{} `json:"data"`
}

type Emitter struct {
	logURL string
	client *http.Client
	wg     sync.WaitGroup
}

func NewEmitter(logURL string) *Emitter {
	return &Emitter{
		logURL: logURL,
		client: &http.Client{Timeout: deliverTimeout},
	}
}

// Emit schedules delivery of the event on a detached goroutine with its
// own deadline, independent of the request's context. Failures are
// logged and swallowed.
func (e *Emitter) Emit(token string, ev Event) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.deliver(token, ev); err != nil {
			log.Warn().
				Err(err).
				Str("action", ev.Action).
				Str("entity_type", ev.EntityType).
				Int("entity_id", ev.EntityID).
				Msg("audit log delivery failed")
		}
	}()
}

// Wait blocks until all scheduled deliveries have finished.
func (e *Emitter) Wait() {
	e.wg.Wait()
}

func (e *Emitter) deliver(token string, ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	payload, err := json.Marshal(logRecord{
		ServiceIdentifier: ev.Service,
		Action:            ev.Action,
		EntityType:        ev.EntityType,
		EntityID:          ev.EntityID,
		ActorUsername:     ev.Actor,
		ChangeDescription: ev.Description,
		Data:              ev.Data,
	})
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.logURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ledger returned status %s", resp.Status)
	}
	return nil
}
