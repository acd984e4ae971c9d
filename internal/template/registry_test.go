package template

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
)

func simpleTemplate(name string) *domain.TaskTemplate {
	return &domain.TaskTemplate{
		Name:        name,
		Description: "Test template",
		Schema: mustSchema(schema.FieldDefinition{
			ID: "title", Label: "Title", Type: schema.TextType{}, Required: true,
		}),
	}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.Empty(t, r.List())
}

func TestRegistry_Register_Success(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(simpleTemplate("test")))

	got, err := r.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "test", got.Name)
	assert.Equal(t, "Test template", got.Description)
	assert.Equal(t, 1, got.Schema.Len())
}

func TestRegistry_Register_Nil(t *testing.T) {
	r := NewRegistry()

	err := r.Register(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, eurekaerrors.ErrTemplateNil)
}

func TestRegistry_Register_EmptyName(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"", "   "} {
		err := r.Register(simpleTemplate(name))
		require.Error(t, err)
		assert.ErrorIs(t, err, eurekaerrors.ErrTemplateNameEmpty)
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(simpleTemplate("test")))

	err := r.Register(simpleTemplate("test"))
	require.Error(t, err)
	assert.ErrorIs(t, err, eurekaerrors.ErrTemplateDuplicate)
	assert.Contains(t, err.Error(), "test")
}

func TestRegistry_RegisterOrReplace(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(simpleTemplate("test")))

	replacement := simpleTemplate("test")
	replacement.Description = "Replaced"
	require.NoError(t, r.RegisterOrReplace(replacement))

	got, err := r.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", got.Description)

	require.ErrorIs(t, r.RegisterOrReplace(nil), eurekaerrors.ErrTemplateNil)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()

	got, err := r.Get("missing")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, eurekaerrors.ErrTemplateNotFound)
}

func TestRegistry_Get_ReturnsClone(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(simpleTemplate("test")))

	got, err := r.Get("test")
	require.NoError(t, err)
	got.Description = "mutated"

	again, err := r.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "Test template", again.Description)
}

func TestRegistry_Register_StoresClone(t *testing.T) {
	r := NewRegistry()
	tmpl := simpleTemplate("test")
	require.NoError(t, r.Register(tmpl))

	tmpl.Description = "mutated after register"

	got, err := r.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "Test template", got.Description)
}

func TestRegistry_List_SortedByName(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(simpleTemplate(name)))
	}

	var names []string
	for _, tmpl := range r.List() {
		names = append(names, tmpl.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(simpleTemplate("test")))

	require.NoError(t, r.Remove("test"))
	_, err := r.Get("test")
	require.ErrorIs(t, err, eurekaerrors.ErrTemplateNotFound)

	require.ErrorIs(t, r.Remove("test"), eurekaerrors.ErrTemplateNotFound)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = r.Register(simpleTemplate(fmt.Sprintf("tmpl-%d", n)))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.List()
		}()
	}
	wg.Wait()

	assert.Len(t, r.List(), 20)
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	var names []string
	for _, tmpl := range r.List() {
		names = append(names, tmpl.Name)
		require.NoError(t, ValidateTemplate(tmpl), tmpl.Name)
	}
	assert.Equal(t, []string{"bug", "feature"}, names)
}

func TestBuiltInTemplates_Defaults(t *testing.T) {
	bug := NewBugTemplate()
	values := bug.Schema.ApplyDefaults(map[string]schema.FieldValue{
		"summary": schema.TextValue{Value: "Crash on launch"},
	})
	assert.Equal(t, schema.SingleSelectValue{Value: "medium"}, values["priority"])
	require.NoError(t, bug.Schema.ValidateValues(values))

	feature := NewFeatureTemplate()
	values = feature.Schema.ApplyDefaults(nil)
	assert.Equal(t, schema.NumberValue{Value: schema.Ptr(1.0)}, values["estimate"])

	err := feature.Schema.ValidateValues(values)
	require.Error(t, err)
	assert.ErrorIs(t, err, eurekaerrors.ErrRequiredFieldMissing)
}
