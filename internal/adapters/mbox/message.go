package mbox

import (
	"bytes"
	"fmt"
	"io"
	netmail "net/mail"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/anciri/mail-processing-workflow/internal/core"
)

// rawMessage holds the fields of one mbox message, each paired with
// the error its extraction produced. Accessors surface those errors
// independently so callers can recover per field.
type rawMessage struct {
	senderName  string
	senderAddr  string
	senderErr   error
	to          string
	toErr       error
	cc          string
	ccErr       error
	received    time.Time
	receivedErr error
	sent        time.Time
	sentErr     error
	subject     string
	subjectErr  error
	body        string
	bodyErr     error
	attachments []string
	attachErr   error
}

var _ core.RawMessage = (*rawMessage)(nil)

func (m *rawMessage) SenderName() (string, error)    { return m.senderName, m.senderErr }
func (m *rawMessage) SenderAddress() (string, error) { return m.senderAddr, m.senderErr }
func (m *rawMessage) To() (string, error)            { return m.to, m.toErr }
func (m *rawMessage) CC() (string, error)            { return m.cc, m.ccErr }
func (m *rawMessage) Subject() (string, error)       { return m.subject, m.subjectErr }
func (m *rawMessage) Body() (string, error)          { return m.body, m.bodyErr }

func (m *rawMessage) ReceivedTime() (time.Time, error) { return m.received, m.receivedErr }
func (m *rawMessage) SentTime() (time.Time, error)     { return m.sent, m.sentErr }

// CreationTime is not recorded in the mbox format.
func (m *rawMessage) CreationTime() (time.Time, error) {
	return time.Time{}, fmt.Errorf("creation time not available in mbox store")
}

func (m *rawMessage) AttachmentNames() ([]string, error) { return m.attachments, m.attachErr }

// unreadableMessage produces a message object whose every accessor
// fails with the given cause.
func unreadableMessage(cause error) *rawMessage {
	err := fmt.Errorf("unreadable message: %w", cause)
	return &rawMessage{
		senderErr:   err,
		toErr:       err,
		ccErr:       err,
		receivedErr: err,
		sentErr:     err,
		subjectErr:  err,
		bodyErr:     err,
		attachErr:   err,
	}
}

// parseMessage extracts every field of a raw RFC 5322 message
// independently; a failure on one field never blocks the others.
func parseMessage(raw []byte) *rawMessage {
	msg := &rawMessage{}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		if mr == nil {
			return unreadableMessage(err)
		}
		// Header decoded; body parts may still be walkable.
	}
	header := mr.Header

	if from, err := header.AddressList("From"); err != nil || len(from) == 0 {
		msg.senderErr = fieldErr("From", err)
	} else {
		msg.senderName = from[0].Name
		msg.senderAddr = from[0].Address
	}

	msg.to, msg.toErr = addressText(&header, "To")
	msg.cc, msg.ccErr = addressText(&header, "Cc")

	if subject, err := header.Subject(); err != nil {
		msg.subjectErr = fieldErr("Subject", err)
	} else {
		msg.subject = subject
	}

	if date, err := header.Date(); err != nil {
		msg.sentErr = fieldErr("Date", err)
	} else {
		msg.sent = date
	}

	msg.received, msg.receivedErr = receivedTime(&header)
	if msg.receivedErr != nil && msg.sentErr == nil {
		// Fall back to the sent time so the primary date column is
		// still populated for well-formed mail.
		msg.received, msg.receivedErr = msg.sent, nil
	}

	msg.body, msg.attachments, msg.bodyErr, msg.attachErr = walkParts(mr)
	return msg
}

// receivedTime parses the timestamp of the newest Received header,
// which trails the routing information after a semicolon.
func receivedTime(header *mail.Header) (time.Time, error) {
	value := header.Get("Received")
	if value == "" {
		return time.Time{}, fmt.Errorf("no Received header")
	}
	idx := strings.LastIndex(value, ";")
	if idx < 0 {
		return time.Time{}, fmt.Errorf("malformed Received header")
	}
	t, err := netmail.ParseDate(strings.TrimSpace(value[idx+1:]))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse Received date: %w", err)
	}
	return t, nil
}

func addressText(header *mail.Header, key string) (string, error) {
	value := header.Get(key)
	if value == "" {
		return "", nil
	}
	list, err := header.AddressList(key)
	if err != nil {
		// Keep the raw header text rather than losing the field.
		return value, nil
	}
	parts := make([]string, 0, len(list))
	for _, addr := range list {
		parts = append(parts, addr.String())
	}
	return strings.Join(parts, "; "), nil
}

// walkParts reads the first inline text part as the body and collects
// attachment filenames.
func walkParts(mr *mail.Reader) (body string, attachments []string, bodyErr, attachErr error) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if body == "" && bodyErr == nil {
				bodyErr = fieldErr("body", err)
			}
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			if body != "" {
				continue
			}
			data, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				bodyErr = fieldErr("body", readErr)
				continue
			}
			body = string(data)
			bodyErr = nil
		case *mail.AttachmentHeader:
			name, nameErr := h.Filename()
			if nameErr != nil {
				attachErr = fieldErr("attachment filename", nameErr)
				continue
			}
			attachments = append(attachments, name)
		}
	}
	return body, attachments, bodyErr, attachErr
}

func fieldErr(field string, err error) error {
	if err == nil {
		return fmt.Errorf("missing %s", field)
	}
	return fmt.Errorf("read %s: %w", field, err)
}
