package ansible

import (
	"fmt"

	"go.uber.org/zap"
)

const playbookBin = "ansible-playbook"

// Executor turns commands and playbook batches into invocations of the
// ansible tools. It runs one invocation at a time.
type Executor struct {
	Runner    Runner
	Log       *zap.Logger
	Inventory string
	Verbosity int
	// TempDir receives materialized playbooks; empty means the system
	// temp dir.
	TempDir string
	// FilePrefix starts the name of every materialized playbook.
	FilePrefix string
}

func (e *Executor) log() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e *Executor) run(inv Invocation) (Result, error) {
	e.log().Debug("exec", zap.String("program", inv.Program), zap.Strings("args", inv.Args))
	res, err := e.Runner.Run(inv)
	if err != nil {
		e.log().Warn("invocation failed", zap.String("program", inv.Program), zap.Error(err))
	}
	return res, err
}

// RunCommand runs a single ad-hoc command.
func (e *Executor) RunCommand(c *Command) error {
	e.log().Info("running ansible command",
		zap.Stringer("module", c),
		zap.String("hosts", c.Target()),
		zap.Bool("become", c.Become))
	_, err := e.run(Invocation{Program: adhocBin, Args: c.Args(e.Inventory, e.Verbosity)})
	return err
}

// RunBatch runs the playbooks of b according to its mode. Every file
// materialized along the way is removed before RunBatch returns.
func (e *Executor) RunBatch(b *Batch) error {
	e.log().Info("running playbooks", zap.Stringer("mode", b.Mode), zap.Int("count", b.Len()))
	if b.Mode == Sequential {
		for _, p := range b.Playbooks() {
			if err := e.runPlaybook(p, e.playbookArgs); err != nil {
				return fmt.Errorf("playbook %s: %w", p.Name, err)
			}
		}
		return nil
	}
	return e.runCombined(b)
}

// SyntaxCheck asks ansible-playbook to parse each playbook of b in turn,
// stopping at the first one that fails.
func (e *Executor) SyntaxCheck(b *Batch) error {
	syntaxArgs := func(paths []string) []string {
		return append([]string{"--syntax-check"}, paths...)
	}
	for _, p := range b.Playbooks() {
		if err := e.runPlaybook(p, syntaxArgs); err != nil {
			return fmt.Errorf("playbook %s: %w", p.Name, err)
		}
		e.log().Info("syntax ok", zap.String("playbook", p.Name))
	}
	return nil
}

func (e *Executor) runCombined(b *Batch) error {
	defer e.cleanup(b.Playbooks()...)

	paths := make([]string, 0, b.Len())
	for _, p := range b.Playbooks() {
		path, err := e.materialize(p)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}
	_, err := e.run(Invocation{Program: playbookBin, Args: e.playbookArgs(paths)})
	return err
}

func (e *Executor) runPlaybook(p *Playbook, args func(paths []string) []string) error {
	defer e.cleanup(p)

	path, err := e.materialize(p)
	if err != nil {
		return err
	}
	_, err = e.run(Invocation{Program: playbookBin, Args: args([]string{path})})
	return err
}

func (e *Executor) materialize(p *Playbook) (string, error) {
	path, err := p.Materialize(e.TempDir, e.FilePrefix)
	if err != nil {
		return "", err
	}
	e.log().Debug("wrote playbook", zap.String("playbook", p.Name), zap.String("path", path))
	return path, nil
}

func (e *Executor) cleanup(playbooks ...*Playbook) {
	for _, p := range playbooks {
		if err := p.Remove(); err != nil {
			e.log().Warn("leaving playbook file behind", zap.String("playbook", p.Name), zap.Error(err))
		}
	}
}

// playbookArgs returns the ansible-playbook argument vector for paths.
func (e *Executor) playbookArgs(paths []string) []string {
	var args []string
	if v, ok := VerbosityFlag(e.Verbosity); ok {
		args = append(args, v)
	}
	args = append(args, "-K")
	if e.Inventory != "" {
		args = append(args, "--inventory", e.Inventory)
	}
	return append(args, paths...)
}
