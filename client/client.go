// Package client is an integration-test harness: build an APDU, transmit
// it against a card.Processor (in-process or, via Dial, over a
// transport.Bridge listener), and get back a decoded status-word error.
//
// Grounded on scard/scard.go's APDU/errorCodes/Transmit trio, kept client
// side this time — card/apdu.go and card/errors.go are the server-side
// twins of the same teacher file.
package client

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/oseidemu/myeid/card"
)

// APDU mirrors card.APDU for building requests from test code without
// importing the processor's internal dispatch surface.
type APDU struct {
	Cla  byte
	Ins  byte
	P1   byte
	P2   byte
	Data []byte
}

// Encode renders the APDU in short-form Lc framing, matching
// card.ParseAPDU's accepted grammar.
func (a APDU) Encode() []byte {
	out := []byte{a.Cla, a.Ins, a.P1, a.P2}
	if len(a.Data) > 0 {
		out = append(out, byte(len(a.Data)))
		out = append(out, a.Data...)
	}
	return out
}

// StatusError is returned by Transmit for any non-0x9000 status word,
// carrying the raw word so callers can compare against card's constants.
type StatusError struct {
	SW   uint16
	Data []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status word %#04x", e.SW)
}

// InProcess transmits directly against a card.Processor, with no
// transport framing — the fast path for table-driven processor tests.
func InProcess(proc *card.Processor, a APDU) ([]byte, error) {
	parsed, perr := card.ParseAPDU(a.Encode())
	if perr != nil {
		return nil, &StatusError{SW: uint16(perr.SW)}
	}
	resp := proc.Handle(parsed)
	if resp.SW != card.SWOK {
		return resp.Data, &StatusError{SW: uint16(resp.SW), Data: resp.Data}
	}
	return resp.Data, nil
}

// Conn is a client-side connection to a transport.Bridge listener, used by
// end-to-end tests (cmd/oseidcard run drives an in-process card.Processor
// instead).
type Conn struct {
	conn net.Conn
}

// Dial connects to a vpcd-framed bridge at addr.
func Dial(addr string) (*Conn, error) {
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	return &Conn{conn: c}, nil
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// Transmit sends one framed APDU and waits for its framed response,
// decoding the trailing status word the same way scard.Card.Transmit does.
func (c *Conn) Transmit(a APDU) ([]byte, error) {
	req := a.Encode()
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(req)))
	if _, err := c.conn.Write(lenBuf[:]); err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(req); err != nil {
		return nil, err
	}

	// Zero-length frames are keep-alives (transport.writeKeepAlive); skip
	// them until the real framed response arrives.
	var n uint16
	for {
		if _, err := io.ReadFull(c.conn, lenBuf[:]); err != nil {
			return nil, err
		}
		n = binary.BigEndian.Uint16(lenBuf[:])
		if n != 0 {
			break
		}
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return nil, err
	}
	if len(buf) < 2 {
		return nil, fmt.Errorf("client: response shorter than a status word")
	}
	sw := binary.BigEndian.Uint16(buf[len(buf)-2:])
	data := buf[:len(buf)-2]
	if sw != uint16(card.SWOK) {
		return data, &StatusError{SW: sw, Data: data}
	}
	return data, nil
}
