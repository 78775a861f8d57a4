package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"time"
)

// maxChunk keeps each INSTREAM chunk well below clamd's StreamMaxLength default.
const maxChunk = 1 << 20

// ClamAV talks to a clamd daemon over TCP ("host:3310") or a unix socket path.
type ClamAV struct {
	Address string
	Timeout time.Duration
}

var _ Scanner = (*ClamAV)(nil)

func NewClamAV(address string, timeout time.Duration) *ClamAV {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAV{Address: address, Timeout: timeout}
}

func (c *ClamAV) Name() string { return "clamav" }

func (c *ClamAV) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.Address, "/") {
		network = "unix"
	}
	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.DialContext(ctx, network, c.Address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.Timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping checks that the daemon answers PONG.
func (c *ClamAV) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return err
	}
	reply, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && reply == "" {
		return err
	}
	if !strings.HasPrefix(reply, "PONG") {
		return fmt.Errorf("clamd: unexpected ping reply %q", strings.TrimRight(reply, "\x00"))
	}
	return nil
}

// Scan streams data with zINSTREAM. Connection or protocol errors fail closed.
func (c *ClamAV) Scan(ctx context.Context, _ string, data []byte) Verdict {
	v := Verdict{Scanner: c.Name()}

	conn, err := c.dial(ctx)
	if err != nil {
		v.Err = fmt.Errorf("clamd connect: %w", err)
		return v
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		v.Err = fmt.Errorf("clamd command: %w", err)
		return v
	}
	size := make([]byte, 4)
	for start := 0; start < len(data); start += maxChunk {
		end := min(start+maxChunk, len(data))
		binary.BigEndian.PutUint32(size, uint32(end-start))
		if _, err := conn.Write(size); err != nil {
			v.Err = fmt.Errorf("clamd chunk size: %w", err)
			return v
		}
		if _, err := conn.Write(data[start:end]); err != nil {
			v.Err = fmt.Errorf("clamd chunk: %w", err)
			return v
		}
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		v.Err = fmt.Errorf("clamd end of stream: %w", err)
		return v
	}

	reply, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && reply == "" {
		v.Err = fmt.Errorf("clamd reply: %w", err)
		return v
	}
	return parseReply(v, reply)
}

// parseReply reads "stream: OK", "stream: <name> FOUND" or "... ERROR".
func parseReply(v Verdict, reply string) Verdict {
	reply = strings.TrimSpace(strings.TrimRight(reply, "\x00"))
	_, status, _ := strings.Cut(reply, ":")
	status = strings.TrimSpace(status)
	switch {
	case strings.HasSuffix(status, "FOUND"):
		v.Infected = true
		v.Threat = strings.TrimSpace(strings.TrimSuffix(status, "FOUND"))
	case strings.HasSuffix(status, "ERROR"):
		v.Err = fmt.Errorf("clamd: %s", status)
	case status != "OK":
		v.Err = fmt.Errorf("clamd: unexpected reply %q", reply)
	}
	return v
}
