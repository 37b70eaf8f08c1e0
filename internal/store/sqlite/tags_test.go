package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parabens-app/parabens-server/internal/store"
)

func TestFindOrCreateTagByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newTestCompany(t, s, "Acme")

	tag, err := s.FindOrCreateTagByName(ctx, c.ID, "vendas")
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	if tag.Name != "vendas" || tag.CompanyID != c.ID {
		t.Errorf("unexpected tag: %+v", tag)
	}

	again, err := s.FindOrCreateTagByName(ctx, c.ID, "vendas")
	if err != nil {
		t.Fatalf("second find or create: %v", err)
	}
	if again.ID != tag.ID {
		t.Errorf("expected same tag, got %q and %q", tag.ID, again.ID)
	}
}

func TestTagNameScopedPerCompany(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := newTestCompany(t, s, "Acme")
	globex := newTestCompany(t, s, "Globex")

	t1, err := s.FindOrCreateTagByName(ctx, acme.ID, "vendas")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	t2, err := s.FindOrCreateTagByName(ctx, globex.ID, "vendas")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	if t1.ID == t2.ID {
		t.Error("same-named tags in different companies must be distinct rows")
	}

	tags, err := s.ListTags(ctx, acme.ID)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("acme should have 1 tag, got %d", len(tags))
	}
}

func TestDeleteTagCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newTestCompany(t, s, "Acme")

	tag, err := s.FindOrCreateTagByName(ctx, c.ID, "vendas")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	p := newTestPerson(c.ID, "Ana", "ana@acme.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := s.CreatePerson(ctx, p); err != nil {
		t.Fatalf("create person: %v", err)
	}
	if err := s.SetPersonTags(ctx, c.ID, p.ID, []string{tag.ID}); err != nil {
		t.Fatalf("set tags: %v", err)
	}

	if err := s.DeleteTag(ctx, c.ID, tag.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}

	got, err := s.GetPerson(ctx, c.ID, p.ID)
	if err != nil {
		t.Fatalf("get person: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("person should have no tags after cascade, got %+v", got.Tags)
	}
}

// foreign_keys is per-connection state. Pin several pool connections and
// verify the cascade fires no matter which connection runs the delete.
func TestDeleteTagCascadesOnEveryPoolConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newTestCompany(t, s, "Acme")

	tag, err := s.FindOrCreateTagByName(ctx, c.ID, "diretoria")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	p := newTestPerson(c.ID, "Ana", "ana@acme.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := s.CreatePerson(ctx, p); err != nil {
		t.Fatalf("create person: %v", err)
	}
	if err := s.SetPersonTags(ctx, c.ID, p.ID, []string{tag.ID}); err != nil {
		t.Fatalf("set tags: %v", err)
	}
	tmpl := newTestTemplate(c.ID, tag.ID, "Parabéns!", "<p>Feliz aniversário, {name}!</p>")
	if err := s.UpsertTemplate(ctx, tmpl); err != nil {
		t.Fatalf("upsert template: %v", err)
	}

	// Hold three connections open so the delete is forced onto a fresh one.
	for i := 0; i < 3; i++ {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		defer conn.Close()

		var fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d pragma: %v", i, err)
		}
		if fk != 1 {
			t.Fatalf("conn %d: foreign_keys = %d, want 1", i, fk)
		}
	}

	if err := s.DeleteTag(ctx, c.ID, tag.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}

	var links int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM person_tags WHERE tag_id = ?", tag.ID).Scan(&links); err != nil {
		t.Fatalf("count person_tags: %v", err)
	}
	if links != 0 {
		t.Errorf("person_tags rows survived tag deletion: %d", links)
	}

	var tmpls int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM email_templates WHERE tag_id = ?", tag.ID).Scan(&tmpls); err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if tmpls != 0 {
		t.Errorf("tag-bound templates survived tag deletion: %d", tmpls)
	}
}

func TestDeleteTagWrongCompany(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := newTestCompany(t, s, "Acme")
	globex := newTestCompany(t, s, "Globex")

	tag, err := s.FindOrCreateTagByName(ctx, acme.ID, "vendas")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	if err := s.DeleteTag(ctx, globex.ID, tag.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
