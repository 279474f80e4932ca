package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/modal"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/panes"
)

// refFromName splits a scope-relative name such as "reports/daily.sql".
func refFromName(name string, scope collection.Scope) panes.FileRef {
	col, file, _ := strings.Cut(name, "/")
	return panes.FileRef{Collection: col, File: file, Scope: scope}
}

// checkName enforces the two-level layout: folders are one segment, files
// are "collection/file".
func checkName(name string, isFolder bool) error {
	want := 2
	if isFolder {
		want = 1
	}
	parts := strings.Split(name, "/")
	if len(parts) != want {
		if isFolder {
			return fmt.Errorf("%w: folder names cannot contain /", collection.ErrInvalidName)
		}
		return fmt.Errorf("%w: use collection/name for files", collection.ErrInvalidName)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: empty path segment", collection.ErrInvalidName)
		}
	}
	return nil
}

func withQueryExt(name string) string {
	if filepath.Ext(name) == "" {
		return name + collection.QueryExt
	}
	return name
}

func (m *Model) reloadCollections() {
	m.queue(m.loadCollectionsCmd())
}

func (m *Model) collectionsLoaded(msg CollectionsLoadedMsg) {
	if msg.Err != nil {
		m.logger.Error("failed to load collections", "err", msg.Err)
		m.setError(msg.Err.Error())
		return
	}
	m.collections.SetCollections(msg.Collections)
	if m.selectAfterLoad != nil {
		m.collections.Select(*m.selectAfterLoad)
		m.selectAfterLoad = nil
	}
	m.addWatches()
}

// openFile loads ref into the workspace. Unsaved changes are kept until the
// same file is opened a second time.
func (m *Model) openFile(ref panes.FileRef) {
	if cur, ok := m.workspace.File(); ok && cur == ref {
		m.report(m.nav.ActivatePane(navigation.Workspace))
		return
	}
	if m.workspace.Modified() && !(m.discardArmed && m.discard == ref) {
		m.discard, m.discardArmed = ref, true
		m.setError("Unsaved changes: ^S to save, or open again to discard")
		return
	}
	m.discardArmed = false

	content, err := m.store.ReadFile(ref.Scope, ref.Collection, ref.File)
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.workspace.Open(ref, content)
	m.report(m.nav.ActivatePane(navigation.Workspace))
	m.setStatus("Opened " + ref.Name())
}

// saveQuery writes the workspace to its file and reports success. An
// untitled workspace asks for a file first.
func (m *Model) saveQuery() bool {
	ref, ok := m.workspace.File()
	if !ok {
		m.saveAfterCreate = true
		m.modals.Show(modal.NewFileType{})
		return false
	}
	if err := m.store.SaveFile(ref.Scope, ref.Collection, ref.File, m.workspace.Query()+"\n"); err != nil {
		m.logger.Error("save failed", "file", ref.Name(), "err", err)
		m.setError(err.Error())
		return false
	}
	m.workspace.MarkSaved()
	m.setStatus("Saved " + ref.Name())
	return true
}

// createFromModal creates what the NewFile modal describes. On failure the
// modal stays open so the name can be fixed.
func (m *Model) createFromModal(md *modal.NewFileModal) {
	v := md.Values()
	if v.Name == "" {
		m.setError("Name is required")
		return
	}
	if m.saveAfterCreate && v.IsFolder {
		m.setError("Choose File to save the query")
		return
	}

	name := v.Name
	if v.ParentFolder != "" {
		name = v.ParentFolder + "/" + name
	}
	if !v.IsFolder {
		name = withQueryExt(name)
	}
	if err := checkName(name, v.IsFolder); err != nil {
		m.setError(err.Error())
		return
	}
	if err := m.store.Create(name, v.IsFolder, v.Scope); err != nil {
		m.setError(err.Error())
		return
	}
	m.modals.Close()
	m.logger.Info("created", "name", name, "scope", v.Scope, "folder", v.IsFolder)

	ref := refFromName(name, v.Scope)
	m.selectAfterLoad = &ref
	m.reloadCollections()

	switch {
	case m.saveAfterCreate:
		m.saveAfterCreate = false
		m.workspace.SetFile(ref)
		m.saveQuery()
	case !v.IsFolder:
		m.openFile(ref)
	default:
		m.setStatus("Created " + name)
	}
}

// renameFromModal renames or moves the edited item and keeps the workspace
// pointing at its file.
func (m *Model) renameFromModal(md *modal.EditFileModal) {
	t, v := md.Target(), md.Values()
	if v.Name == "" {
		m.setError("Name is required")
		return
	}
	name := v.Name
	if !t.IsFolder {
		name = withQueryExt(name)
	}
	if name == t.Name && v.Scope == t.Scope {
		m.modals.Close()
		return
	}
	if err := checkName(name, t.IsFolder); err != nil {
		m.setError(err.Error())
		return
	}
	if err := m.store.Rename(t.Name, name, t.Scope, v.Scope); err != nil {
		m.setError(err.Error())
		return
	}
	m.modals.Close()
	m.logger.Info("renamed", "from", t.Name, "to", name, "scope", v.Scope)

	oldRef, newRef := refFromName(t.Name, t.Scope), refFromName(name, v.Scope)
	if cur, ok := m.workspace.File(); ok {
		switch {
		case !t.IsFolder && cur == oldRef:
			m.workspace.SetFile(newRef)
		case t.IsFolder && cur.Collection == oldRef.Collection && cur.Scope == oldRef.Scope:
			m.workspace.SetFile(panes.FileRef{Collection: newRef.Collection, File: cur.File, Scope: newRef.Scope})
		}
	}

	m.selectAfterLoad = &newRef
	m.reloadCollections()
	m.setStatus(fmt.Sprintf("Renamed %s to %s", t.Name, name))
}

// deleteFromModal removes the edited item. The workspace keeps the text of
// a deleted file but forgets the file.
func (m *Model) deleteFromModal() {
	md, ok := m.modals.Active().(*modal.EditFileModal)
	if !ok {
		return
	}
	t := md.Target()
	if err := m.store.Delete(t.Name, t.IsFolder, t.Scope); err != nil {
		m.setError(err.Error())
		return
	}
	m.modals.Close()
	m.logger.Info("deleted", "name", t.Name, "scope", t.Scope)

	gone := refFromName(t.Name, t.Scope)
	if cur, ok := m.workspace.File(); ok {
		if cur == gone || (t.IsFolder && cur.Collection == gone.Collection && cur.Scope == gone.Scope) {
			m.workspace.Close()
		}
	}

	m.reloadCollections()
	m.setStatus("Deleted " + t.Name)
}
