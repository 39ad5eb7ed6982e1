package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// eventPrinter is a sarama.ConsumerGroupHandler that prints every ledger
// event and marks it consumed. Undecodable messages are logged and skipped.
type eventPrinter struct {
	out io.Writer
	log zerolog.Logger
}

func (h *eventPrinter) Setup(session sarama.ConsumerGroupSession) error {
	h.log.Info().Str("member_id", session.MemberID()).Msg("consumer group session started")
	return nil
}

func (h *eventPrinter) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *eventPrinter) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			event, err := decodeEvent(msg.Value)
			if err != nil {
				h.log.Warn().
					Err(err).
					Str("topic", msg.Topic).
					Int32("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Bytes("raw", msg.Value).
					Msg("skipping undecodable ledger event")
			} else {
				fmt.Fprintln(h.out, formatEvent(msg, event))
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func decodeEvent(value []byte) (services.LedgerEvent, error) {
	var event services.LedgerEvent
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		return event, fmt.Errorf("json decode: %w", err)
	}
	if event.Type == "" || event.CustomerID == 0 {
		return event, errors.New("event is missing type or customerId")
	}
	return event, nil
}

func formatEvent(msg *sarama.ConsumerMessage, e services.LedgerEvent) string {
	line := fmt.Sprintf("%s [%d] @%d %s customer=%d debt=%s",
		msg.Topic, msg.Partition, msg.Offset, e.Type, e.CustomerID, e.Debt)
	if e.ItemID != "" {
		line += " item=" + e.ItemID
	}
	return line
}
