package ansible

// BatchMode selects how the playbooks of a batch are handed to
// ansible-playbook.
type BatchMode int

const (
	// Combined passes every playbook to a single ansible-playbook call.
	Combined BatchMode = iota
	// Sequential runs each playbook in its own call, in order, and stops at
	// the first failure.
	Sequential
)

func (m BatchMode) String() string {
	switch m {
	case Combined:
		return "combined"
	case Sequential:
		return "sequential"
	default:
		return "unknown"
	}
}

// Batch is an ordered list of playbooks run as one operation.
type Batch struct {
	Mode      BatchMode
	playbooks []*Playbook
}

func NewBatch(mode BatchMode, playbooks ...*Playbook) *Batch {
	return &Batch{Mode: mode, playbooks: playbooks}
}

func (b *Batch) Add(p *Playbook) { b.playbooks = append(b.playbooks, p) }

func (b *Batch) Len() int { return len(b.playbooks) }

// Playbooks returns the playbooks in insertion order.
func (b *Batch) Playbooks() []*Playbook { return b.playbooks }
