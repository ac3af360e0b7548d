package hostable

import "context"

// BashServer is the general variant: start.sh and stop.sh control it and the
// session list is the only status signal. It does not track players.
type BashServer struct {
	scripted
}

func NewBashServer(path string, r Runner, sessions SessionInspector) *BashServer {
	return &BashServer{scripted{
		path:     path,
		runner:   r,
		sessions: sessions,
		status:   StatusUnknown,
	}}
}

func (b *BashServer) Start(ctx context.Context) error   { return b.start(ctx) }
func (b *BashServer) Stop(ctx context.Context) error    { return b.stop(ctx) }
func (b *BashServer) Restart(ctx context.Context) error { return Restart(ctx, b) }

func (b *BashServer) UpdateStatus(ctx context.Context) error {
	active, err := b.sessionActive(ctx)
	if err != nil {
		return err
	}
	if active {
		b.status = StatusOn
	} else {
		b.status = StatusOff
	}
	return nil
}

func (b *BashServer) ToJSON() ([]byte, error) {
	return b.marshal(noPlayers())
}
