package order_test

import (
	"testing"
	"time"

	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enabledForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.NewForm(kernel.NewUUID(), "Analysis request", []form.FieldDefinition{
		{ID: "sample_name", Label: "Sample name", Type: form.TypeString, Required: true},
		{ID: "amount", Label: "Amount", Type: form.TypeInt},
		{ID: "internal_code", Label: "Internal code", Type: form.TypeString, EraseOnClone: true},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetStatus(form.FormEnabled))
	return f
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-000001", enabledForm(t),
		"HPLC run", "r.daneel", "preparation")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("initializes every leaf to nil", func(t *testing.T) {
		o := newOrder(t)

		assert.Len(t, o.Values(), 3)
		for id, v := range o.Values() {
			assert.Nil(t, v, "field %s", id)
		}
	})

	t.Run("stamps the initial status into history", func(t *testing.T) {
		o := newOrder(t)

		today := time.Now().UTC().Format(kernel.DateLayout)
		assert.Equal(t, map[string]string{"preparation": today}, o.History())
		assert.Equal(t, "preparation", o.Status())
		assert.Equal(t, 1, o.Version())
	})

	t.Run("refuses forms that do not accept orders", func(t *testing.T) {
		f, err := form.NewForm(kernel.NewUUID(), "Draft", []form.FieldDefinition{
			{ID: "a", Label: "A", Type: form.TypeString},
		})
		require.NoError(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), "ORD-000002", f, "Title", "owner", "preparation")
		require.ErrorIs(t, err, order.ErrFormNotAcceptingOrders)
	})

	t.Run("requires title owner and number", func(t *testing.T) {
		f := enabledForm(t)

		_, err := order.NewOrder(kernel.NewUUID(), "ORD-1", f, "", "owner", "preparation")
		require.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), "", f, "Title", "owner", "preparation")
		require.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), "ORD-1", f, "Title", "", "preparation")
		require.Error(t, err)
	})
}

func TestOrder_ApplyFieldChanges(t *testing.T) {
	o := newOrder(t)

	t.Run("installs values invalid and change set", func(t *testing.T) {
		err := o.ApplyFieldChanges(
			map[string]any{"sample_name": "caffeine", "amount": int64(3), "internal_code": nil},
			map[string]string{},
			[]string{"sample_name", "amount"},
		)
		require.NoError(t, err)

		v, ok := o.FieldValue("sample_name")
		require.True(t, ok)
		assert.Equal(t, "caffeine", v)
		assert.Equal(t, []string{"sample_name", "amount"}, o.ChangedFields())
		assert.False(t, o.HasInvalidFields())
	})

	t.Run("reconciles the field set to an evolved schema", func(t *testing.T) {
		// The form gained a leaf after this order was created; the next
		// validation run carries it and drops nothing silently.
		err := o.ApplyFieldChanges(
			map[string]any{
				"sample_name":   "caffeine",
				"amount":        int64(3),
				"internal_code": nil,
				"solvent":       nil,
			},
			map[string]string{},
			nil,
		)
		require.NoError(t, err)

		v, ok := o.FieldValue("solvent")
		require.True(t, ok, "leaves added by a form edit get an entry")
		assert.Nil(t, v)
	})

	t.Run("drops leaves the form no longer defines", func(t *testing.T) {
		err := o.ApplyFieldChanges(
			map[string]any{"sample_name": "caffeine", "amount": int64(3)},
			map[string]string{},
			nil,
		)
		require.NoError(t, err)

		_, ok := o.FieldValue("internal_code")
		assert.False(t, ok)
	})

	t.Run("rejects a nil value map", func(t *testing.T) {
		require.Error(t, o.ApplyFieldChanges(nil, map[string]string{}, nil))
	})
}

func TestOrder_SetTags(t *testing.T) {
	t.Run("staff may set namespaced tags", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.SetTags([]string{"alpha", "lims:123"}, kernel.RoleStaff))
		assert.Equal(t, []string{"alpha", "lims:123"}, o.Tags())
	})

	t.Run("non-staff submission preserves existing namespaced tags", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.SetTags([]string{"alpha", "lims:123"}, kernel.RoleStaff))

		require.NoError(t, o.SetTags([]string{"beta", "lims:456"}, kernel.RoleUser))
		assert.Equal(t, []string{"beta", "lims:123"}, o.Tags())
	})

	t.Run("malformed tags are dropped silently", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.SetTags([]string{"ok", "not ok", "lims:", "9lead"}, kernel.RoleStaff))
		assert.Equal(t, []string{"ok"}, o.Tags())
	})

	t.Run("result is deduplicated and sorted", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.SetTags([]string{"zeta", "alpha", "zeta"}, kernel.RoleUser))
		assert.Equal(t, []string{"alpha", "zeta"}, o.Tags())
	})
}

func TestOrder_SetExternalLinks(t *testing.T) {
	o := newOrder(t)

	err := o.SetExternalLinks([]order.ExternalLink{
		{Href: "https://lims.example.org/runs/7", Title: "LIMS run"},
	})
	require.NoError(t, err)
	assert.Len(t, o.ExternalLinks(), 1)

	err = o.SetExternalLinks([]order.ExternalLink{{Href: "/relative/path", Title: "bad"}})
	require.Error(t, err)
	assert.Len(t, o.ExternalLinks(), 1)
}

func TestOrder_AddAttachment(t *testing.T) {
	o := newOrder(t)

	assert.Equal(t, "spec.pdf", o.AddAttachment("spec.pdf"))
	assert.Equal(t, "spec_1.pdf", o.AddAttachment("spec.pdf"))
	assert.Equal(t, "spec_2.pdf", o.AddAttachment("spec.pdf"))
	assert.Equal(t, "notes", o.AddAttachment("notes"))
	assert.Equal(t, "notes_1", o.AddAttachment("notes"))
	assert.Equal(t, []string{"spec.pdf", "spec_1.pdf", "spec_2.pdf", "notes", "notes_1"},
		o.Attachments())
}

func TestOrder_SetHistory(t *testing.T) {
	o := newOrder(t)

	t.Run("admin only", func(t *testing.T) {
		err := o.SetHistory(map[string]string{"submitted": "2026-01-15"}, kernel.RoleStaff)
		require.ErrorIs(t, err, order.ErrHistoryEditForbidden)
	})

	t.Run("dates must be well formed", func(t *testing.T) {
		err := o.SetHistory(map[string]string{"submitted": "15.01.2026"}, kernel.RoleAdmin)
		require.Error(t, err)
	})

	t.Run("merges the patch", func(t *testing.T) {
		err := o.SetHistory(map[string]string{"submitted": "2026-01-15"}, kernel.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "2026-01-15", o.History()["submitted"])
	})
}

func TestOrder_SetStatus_HistoryFirstWriteWins(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.SetStatus("submitted", "2026-02-01"))
	require.NoError(t, o.SetStatus("preparation", "2026-02-10"))
	require.NoError(t, o.SetStatus("submitted", "2026-02-20"))

	today := time.Now().UTC().Format(kernel.DateLayout)
	assert.Equal(t, "submitted", o.Status())
	assert.Equal(t, today, o.History()["preparation"])
	assert.Equal(t, "2026-02-01", o.History()["submitted"])
}

func TestOrder_Clone(t *testing.T) {
	f := enabledForm(t)
	source, err := order.NewOrder(kernel.NewUUID(), "ORD-000010", f, "HPLC run", "r.daneel", "preparation")
	require.NoError(t, err)

	require.NoError(t, source.ApplyFieldChanges(
		map[string]any{"sample_name": "caffeine", "amount": int64(3), "internal_code": "X-17"},
		map[string]string{},
		[]string{"sample_name", "amount", "internal_code"},
	))
	require.NoError(t, source.SetTags([]string{"alpha"}, kernel.RoleUser))
	source.AddAttachment("spec.pdf")
	require.NoError(t, source.SetStatus("submitted", "2026-02-01"))

	clone, err := source.Clone(kernel.NewUUID(), "ORD-000011", f.Schema(), "preparation")
	require.NoError(t, err)

	v, _ := clone.FieldValue("sample_name")
	assert.Equal(t, "caffeine", v)
	v, _ = clone.FieldValue("internal_code")
	assert.Nil(t, v, "erase-on-clone fields start empty")

	assert.Equal(t, "preparation", clone.Status())
	assert.Equal(t, 1, clone.Version())
	assert.Empty(t, clone.Tags())
	assert.Empty(t, clone.Attachments())
	assert.Len(t, clone.History(), 1)
	assert.Equal(t, source.Owner(), clone.Owner())
	assert.Equal(t, "ORD-000011", clone.Number())
}

func TestRestoreOrder(t *testing.T) {
	id, formID := kernel.NewUUID(), kernel.NewUUID()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	o, err := order.RestoreOrder(id, "ORD-000020", formID, 2,
		"Restored", "owner", "submitted", 5,
		map[string]any{"a": "x"}, map[string]string{"a": "missing value"},
		map[string]string{"preparation": "2026-02-28", "submitted": "2026-03-01"},
		[]string{"alpha"}, nil, nil, created, created)
	require.NoError(t, err)

	assert.Equal(t, 5, o.Version())
	assert.Equal(t, "submitted", o.Status())
	assert.True(t, o.HasInvalidFields())

	_, err = order.RestoreOrder(id, "ORD-000021", formID, 2,
		"Restored", "owner", "submitted", 0,
		nil, nil, nil, nil, nil, nil, created, created)
	require.Error(t, err, "zero version is rejected")
}

func TestOrder_Validate(t *testing.T) {
	var zero order.Order
	require.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)
	require.NoError(t, newOrder(t).Validate())
}

func TestOrder_PopulateField(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.PopulateField("sample_name", "caffeine"))
	v, _ := o.FieldValue("sample_name")
	assert.Equal(t, "caffeine", v)

	err := o.PopulateField("nope", "x")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
