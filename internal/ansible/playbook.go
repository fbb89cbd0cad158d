package ansible

import (
	"fmt"
	"os"
)

// Playbook holds the text of one playbook and the file it was last written
// to.
type Playbook struct {
	Name    string
	content []byte
	path    string
}

func NewPlaybook(name string, content []byte) *Playbook {
	return &Playbook{Name: name, content: content}
}

// Content returns the playbook text.
func (p *Playbook) Content() []byte { return p.content }

// Path returns the file written by the last Materialize call, or "" if the
// playbook is not on disk.
func (p *Playbook) Path() string { return p.path }

// Materialize writes the playbook to a new uniquely named file in dir (the
// system temp dir when empty) and returns its path. Every call creates a new
// file. A failed write leaves nothing behind.
func (p *Playbook) Materialize(dir, prefix string) (string, error) {
	f, err := os.CreateTemp(dir, prefix+"*.yaml")
	if err != nil {
		return "", fmt.Errorf("create playbook file for %s: %w", p.Name, err)
	}
	name := f.Name()

	if _, err := f.Write(p.content); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("write playbook %s: %w", p.Name, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("sync playbook %s: %w", p.Name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close playbook %s: %w", p.Name, err)
	}

	p.path = name
	return name, nil
}

// Remove deletes the materialized file, if any.
func (p *Playbook) Remove() error {
	if p.path == "" {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove playbook %s: %w", p.path, err)
	}
	p.path = ""
	return nil
}
