// Package transport implements the vpcd/vsmartcard wire bridge: a TCP
// listener that frames APDU request/response pairs with a 2-byte
// big-endian length prefix, the protocol pcscd's virtual PCSC driver
// speaks to a software-only card.
//
// Grounded on scard/scard_unix.go's Context/Reader/Card layering — there
// a PC/SC client connecting out to real readers, here a server accepting
// connections from a virtual reader — and its //go:build !windows
// discipline for the golang.org/x/sys/unix-specific half.
package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/oseidemu/myeid/card"
)

// maxFrame is the largest APDU or response body this bridge will frame:
// the largest length the 2-byte prefix can carry, so readFrame accepts
// every length it can read and only writeFrame has a body to refuse.
const maxFrame = 65535

// Bridge listens for vpcd connections and dispatches each one to its own
// card.Processor.
type Bridge struct {
	Addr string
	// NewProcessor constructs a fresh Processor per accepted connection
	// (each vpcd connection is one card session).
	NewProcessor func() *card.Processor
	Log          *slog.Logger
}

// ListenAndServe binds Addr and serves connections until Accept fails
// (for instance because the listener was closed).
func (b *Bridge) ListenAndServe() error {
	ln, err := listen(b.Addr)
	if err != nil {
		return fmt.Errorf("transport: listen %s: %w", b.Addr, err)
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("transport: accept: %w", err)
		}
		go b.serve(conn)
	}
}

func (b *Bridge) serve(conn net.Conn) {
	defer conn.Close()
	proc := b.NewProcessor()
	proc.Progress = func() { _ = writeKeepAlive(conn) }
	if b.Log != nil {
		b.Log.Debug("connection accepted", "remote", conn.RemoteAddr())
	}

	for {
		req, err := readFrame(conn)
		if err != nil {
			if err != io.EOF && b.Log != nil {
				b.Log.Debug("connection closed", "err", err)
			}
			return
		}
		apdu, perr := card.ParseAPDU(req)
		var resp card.Response
		if perr != nil {
			resp = card.Response{SW: perr.SW}
		} else {
			resp = proc.Handle(apdu)
		}
		if err := writeFrame(conn, resp.Bytes()); err != nil {
			if b.Log != nil {
				b.Log.Debug("write failed", "err", err)
			}
			return
		}
	}
}

// readFrame reads one vpcd-framed message: a 2-byte big-endian length
// prefix followed by that many bytes.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	if int(n) > maxFrame {
		return nil, fmt.Errorf("transport: frame length %d exceeds maximum %d", n, maxFrame)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeFrame writes one vpcd-framed message.
func writeFrame(w io.Writer, data []byte) error {
	if len(data) > maxFrame {
		return fmt.Errorf("transport: response length %d exceeds maximum %d", len(data), maxFrame)
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// writeKeepAlive writes a zero-length frame (a bare 0x0000 length prefix,
// no body) as a keep-alive, vpcd's own convention for signaling "still
// working" without terminating the connection — wired to
// card.Processor.Progress so a long RSA/EC operation doesn't look like a
// dead connection to the virtual-reader client. Framing a keep-alive as an
// empty frame, rather than a bare stray byte, keeps it unambiguous: every
// read on this connection is a 2-byte length prefix, full stop.
func writeKeepAlive(w io.Writer) error {
	_, err := w.Write([]byte{0x00, 0x00})
	return err
}
