package protocol

import (
	"errors"
	"fmt"
	log "log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Config wires a shard onto the host bridge.
type Config struct {
	Shard   string
	Url     string
	Reconn  uint
	Timeout time.Duration
	EmitOut func(*Message)
}

// Protocol speaks colon-delimited single-line frames over a websocket:
// TO:VERB:NOUN[:ARG...]:FROM. One request/response pair may be in flight
// at a time; unsolicited frames go to the EmitOut callback.
type Protocol struct {
	ws *WebSocket

	shard string

	waiterMu sync.Mutex
	waiter   chan *Message

	emitOut func(*Message)
}

func NewProtocol(cfg Config) (*Protocol, error) {
	ws, err := NewWebSocket(cfg.Url, cfg.Reconn, cfg.Timeout)
	if err != nil {
		log.Error("Failed to init ws connection")
		return nil, err
	}

	ptcl := &Protocol{
		shard:   cfg.Shard,
		ws:      ws,
		emitOut: cfg.EmitOut,
	}

	return ptcl, nil
}

func (ptcl *Protocol) EmitOut(f func(*Message)) {
	ptcl.emitOut = f
}

func (ptcl *Protocol) TransmitReceive(msg Message) (*Message, error) {
	w := ptcl.installWaiter()
	defer ptcl.clearWaiter()

	if err := ptcl.Transmit(msg); err != nil {
		return nil, err
	}

	resp, ok := <-w
	if !ok {
		return nil, errors.New("connection lost while waiting for reply")
	}
	return resp, nil
}

func (ptcl *Protocol) Transmit(msg Message) error {
	msg.From = ptcl.shard
	line := msg.String()

	err := ptcl.ws.Write([]byte(line))
	if err != nil {
		log.Error("Failed to transmit", "msg", line, "err", err)
	}
	return err
}

// Run is the read loop. It reconnects on close, routes replies to the
// installed waiter and hands everything else to emitOut.
func (ptcl *Protocol) Run() {
	for {
		in := ptcl.ws.Read()
		switch in.kind {
		case CONN_CLOSE:
			log.Warn("Trying to reconnect on", "url", ptcl.ws.url)
			ptcl.abortWaiter()
			ptcl.ws.TryReconn()
			log.Info("Succesfully reconnected")

		case READ_FAILURE:
			log.Error("Failed to read", "err", in.err)

		case READ_OK:
			if !ptcl.checkRecipient(in.msg) {
				continue
			}

			msg, err := Parse(string(in.msg))
			if err != nil {
				log.Warn("Failed to parse", "msg", string(in.msg), "err", err)
				continue
			}

			ptcl.route(msg)
		}
	}
}

// route delivers a parsed frame: replies wake the waiter, events always
// go out-of-band.
func (ptcl *Protocol) route(msg *Message) {
	if w := ptcl.currentWaiter(); w != nil && msg.Verb != "EVT" {
		w <- msg
		return
	}
	if ptcl.emitOut != nil {
		ptcl.emitOut(msg)
	}
}

func (ptcl *Protocol) installWaiter() chan *Message {
	ptcl.waiterMu.Lock()
	defer ptcl.waiterMu.Unlock()
	ptcl.waiter = make(chan *Message, 1)
	return ptcl.waiter
}

func (ptcl *Protocol) clearWaiter() {
	ptcl.waiterMu.Lock()
	defer ptcl.waiterMu.Unlock()
	ptcl.waiter = nil
}

func (ptcl *Protocol) abortWaiter() {
	ptcl.waiterMu.Lock()
	defer ptcl.waiterMu.Unlock()
	if ptcl.waiter != nil {
		close(ptcl.waiter)
		ptcl.waiter = nil
	}
}

func (ptcl *Protocol) currentWaiter() chan *Message {
	ptcl.waiterMu.Lock()
	defer ptcl.waiterMu.Unlock()
	return ptcl.waiter
}

func (ptcl *Protocol) checkRecipient(msg []byte) bool {
	to := strings.Split(string(msg), ":")[0]
	return to == ptcl.shard || to == "ALL"
}

func Parse(line string) (*Message, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return nil, errors.New("empty message")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		// frames are single-line, whitespace never valid
		return nil, fmt.Errorf("invalid whitespace present")
	}
	parts := strings.Split(s, ":")
	if len(parts) < 4 {
		return nil, fmt.Errorf("too few fields: got %d, want >= 4", len(parts))
	}

	to := parts[0]
	verb := parts[1]
	noun := parts[2]
	from := parts[len(parts)-1]
	args := append([]string(nil), parts[3:len(parts)-1]...)

	if !isToken(to) && to != "ALL" {
		return nil, fmt.Errorf("invalid TO token: %q", to)
	}
	if !isToken(from) {
		return nil, fmt.Errorf("invalid FROM token: %q", from)
	}

	if !isToken(noun) || !isToken(verb) {
		return nil, fmt.Errorf("invalid NOUN/VERB: %q %q", noun, verb)
	}
	for i, a := range args {
		if !isToken(a) {
			return nil, fmt.Errorf("invalid ARG[%d]: %q", i, a)
		}
	}

	msg := &Message{
		To:   to,
		Verb: strings.ToUpper(verb),
		Noun: strings.ToUpper(noun),
		Args: args,
		From: from,
	}
	return msg, nil
}

var tokenRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func isToken(s string) bool {
	return tokenRe.MatchString(s)
}

type Message struct {
	To   string
	Verb string
	Noun string
	Args []string
	From string
}

func (m *Message) String() string {
	parts := make([]string, 0, 4+len(m.Args))
	parts = append(parts, m.To)
	parts = append(parts, m.Verb)
	parts = append(parts, m.Noun)
	parts = append(parts, m.Args...)
	parts = append(parts, m.From)
	return strings.Join(parts, ":")
}

func (m *Message) IsOk() bool  { return m.Verb == "OK" }
func (m *Message) IsErr() bool { return m.Verb == "ERR" }

func (m *Message) Error(reason string, args ...string) {
	m.Verb = "ERR"
	m.Noun = reason
	m.Args = args
}

func (m *Message) Ok(reason string, args ...string) {
	m.Verb = "OK"
	m.Noun = reason
	m.Args = args
}
