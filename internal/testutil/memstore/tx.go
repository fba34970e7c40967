package memstore

import "context"

// TxManager runs fn directly. When Restrictions is set, the store is restored
// to its state before the outermost Do whenever fn fails.
type TxManager struct {
	Calls        int
	RolledBack   int
	Restrictions *Restrictions

	depth int
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.depth > 0 {
		return fn(ctx)
	}

	var snap *snapshot
	if m.Restrictions != nil {
		snap = m.Restrictions.snapshot()
	}

	m.depth++
	err := fn(ctx)
	m.depth--

	if err != nil {
		m.RolledBack++
		if snap != nil {
			m.Restrictions.restore(snap)
		}
	}
	return err
}
