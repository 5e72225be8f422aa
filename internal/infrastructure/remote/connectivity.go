package remote

import (
	"context"
	"net"
	"time"

	"github.com/libertsolutions/libertvendas/internal/application/login"
)

var _ login.Connectivity = (*Connectivity)(nil)

// Connectivity verifica si el backend es alcanzable con un dial TCP corto.
type Connectivity struct {
	addr    string
	timeout time.Duration
}

// NewConnectivity construye el chequeo contra el host del cliente.
func NewConnectivity(c *Client, timeout time.Duration) *Connectivity {
	u := c.BaseURL()
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return &Connectivity{addr: net.JoinHostPort(u.Hostname(), port), timeout: timeout}
}

// IsOnline intenta abrir una conexión y la cierra enseguida.
func (c *Connectivity) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
