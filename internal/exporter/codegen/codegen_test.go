package codegen

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"design-exporter/internal/common/config"
	"design-exporter/internal/exporter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reply *Reply
	err   error
	calls []ChatRequest
}

func (f *fakeChat) Complete(_ context.Context, req ChatRequest) (*Reply, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func mustHex(t *testing.T, s string) *models.HexColor {
	t.Helper()
	c, err := models.ParseHexColor(s)
	require.NoError(t, err)
	return &c
}

func num(v float64) *float64 { return &v }

func TestDartColor(t *testing.T) {
	assert.Equal(t, "Color(0xFF112233)", DartColor(*mustHex(t, "#112233")))
	assert.Equal(t, "Color(0x80112233)", DartColor(*mustHex(t, "#80112233")))
}

func TestEdgeInsets(t *testing.T) {
	assert.Equal(t, "EdgeInsets.all(16.0)", EdgeInsets(models.Spacing{Top: 16, Right: 16, Bottom: 16, Left: 16}))
	assert.Equal(t, "EdgeInsets.symmetric(vertical: 8.0, horizontal: 16.0)",
		EdgeInsets(models.Spacing{Top: 8, Right: 16, Bottom: 8, Left: 16}))
	assert.Equal(t, "EdgeInsets.fromLTRB(4.0, 1.0, 2.0, 3.0)",
		EdgeInsets(models.Spacing{Top: 1, Right: 2, Bottom: 3, Left: 4}))
}

func TestIconRef(t *testing.T) {
	assert.Equal(t, "Icons.settings", IconRef("settings"))
	assert.Equal(t, "Icons.arrow_back", IconRef("arrowBack"))
	assert.Equal(t, "Icons.home", IconRef("Icons.home"))
	assert.Equal(t, FallbackIcon, IconRef("unicorn_rainbow"))
	assert.Equal(t, FallbackIcon, IconRef(""))
}

func TestImageWidget(t *testing.T) {
	assert.Equal(t, "Image.network('https://placehold.co/200x100')",
		ImageWidget(models.Properties{SourceURL: "https://placehold.co/200x100"}))
	assert.Equal(t, "Placeholder(fallbackWidth: 100.0, fallbackHeight: 100.0)", ImageWidget(models.Properties{}))
	assert.Equal(t, "Placeholder(fallbackWidth: 320.0, fallbackHeight: 100.0)",
		ImageWidget(models.Properties{Width: num(320)}))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "otra_vista", SnakeCase("OtraVista"))
	assert.Equal(t, "product_list", SnakeCase("Product List"))
	assert.Equal(t, "http_server", SnakeCase("HTTPServer"))
	assert.Equal(t, "/otra_vista", RouteName("OtraVista"))

	assert.Equal(t, "home_screen", ProjectName(models.UIStructure{{Name: "HomeScreen"}, {Name: "Other"}}))
	assert.Equal(t, DefaultProjectName, ProjectName(models.UIStructure{{Name: "!!!"}}))
	assert.Equal(t, DefaultProjectName, ProjectName(nil))
	assert.Equal(t, "app_2_fa", ProjectName(models.UIStructure{{Name: "2FA"}}))
}

func card(title string) models.Widget {
	return models.Widget{Type: "card", Children: []models.Widget{
		{Type: "image"},
		{Type: "text", Text: title},
	}}
}

func TestAnnotate(t *testing.T) {
	structure := models.UIStructure{
		{Name: "Catalog", Widgets: []models.Widget{
			{Type: "column", Properties: models.Properties{Padding: &models.Spacing{Top: 8, Right: 8, Bottom: 8, Left: 8}},
				Children: []models.Widget{card("A"), card("B")}},
			{Type: "icon_button", Properties: models.Properties{IconName: "settings", NavigateTo: "AppSettings", Color: mustHex(t, "#FF0000")}},
		}},
		{Name: "AppSettings"},
	}

	project := Annotate(structure)
	assert.Equal(t, "catalog", project.ProjectName)
	require.Len(t, project.Views, 2)
	assert.Equal(t, "/", project.Views[0].Route)
	assert.Equal(t, "/app_settings", project.Views[1].Route)
	assert.Equal(t, "lib/views/app_settings.dart", project.Views[1].File)

	col := project.Views[0].Widgets[0]
	require.NotNil(t, col.Flutter)
	assert.Equal(t, "EdgeInsets.all(8.0)", col.Flutter.Padding)
	require.Len(t, col.Children, 2)
	assert.Equal(t, "CustomCard", col.Children[0].Flutter.Component)
	assert.Equal(t, "Placeholder(fallbackWidth: 100.0, fallbackHeight: 100.0)", col.Children[1].Children[0].Flutter.Image)
	assert.Nil(t, col.Children[0].Children[1].Flutter, "plain text needs no hints")

	btn := project.Views[0].Widgets[1]
	assert.Equal(t, "Icons.settings", btn.Flutter.Icon)
	assert.Equal(t, "/app_settings", btn.Flutter.Route)
	assert.Equal(t, "Color(0xFFFF0000)", btn.Flutter.Color)

	require.Len(t, project.Components, 1)
	assert.Equal(t, component{Name: "CustomCard", File: "lib/widgets/custom_card.dart", Shape: "card(image,text)", Occurrences: 2},
		project.Components[0])

	data, err := json.Marshal(project)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"navigateTo":"AppSettings"`)
}

func TestGenerate(t *testing.T) {
	model := &fakeChat{reply: &Reply{Text: "```json\n[{\"path\":\"lib/main.dart\",\"content\":\"void main() {}\"}]\n```"}}
	files, err := NewClient(model, 0.2).Generate(context.Background(), models.UIStructure{{Name: "Home"}})
	require.NoError(t, err)
	assert.Equal(t, []models.GeneratedFile{{Path: "lib/main.dart", Content: "void main() {}"}}, files)

	require.Len(t, model.calls, 1)
	call := model.calls[0]
	assert.Equal(t, 0.2, call.Temperature)
	assert.Contains(t, call.System, "ColorScheme.fromSeed")
	assert.Contains(t, call.System, "google_fonts: ^6.2.1")
	assert.Contains(t, call.User, `"projectName": "home"`)
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewClient(&fakeChat{}, 0.2).Generate(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrStructureParse)

	_, err = NewClient(&fakeChat{err: errors.New("timeout")}, 0.2).Generate(context.Background(), models.UIStructure{{Name: "A"}})
	assert.ErrorIs(t, err, models.ErrModelRequest)

	_, err = NewClient(&fakeChat{reply: &Reply{Text: "{}"}}, 0.2).Generate(context.Background(), models.UIStructure{{Name: "A"}})
	assert.ErrorIs(t, err, models.ErrCodeGenParse)
	assert.Equal(t, "{}", models.RawOf(err))
}

func TestOpenAIRequiresCredential(t *testing.T) {
	t.Setenv(config.OpenAIAPIKey, "")
	_, err := NewOpenAIModel("gpt-4o").Complete(context.Background(), ChatRequest{})
	assert.ErrorIs(t, err, models.ErrMissingCredential)
}

func TestAnnotateNavigateBackToFirstView(t *testing.T) {
	structure := models.UIStructure{
		{Name: "Home"},
		{Name: "Details", Widgets: []models.Widget{
			{Type: "button", Text: "Back", Properties: models.Properties{NavigateTo: "Home"}},
			{Type: "button", Text: "Self", Properties: models.Properties{NavigateTo: "details"}},
			{Type: "button", Text: "Lost", Properties: models.Properties{NavigateTo: "Checkout"}},
		}},
	}

	project := Annotate(structure)
	registered := make(map[string]bool)
	for _, v := range project.Views {
		registered[v.Route] = true
	}

	widgets := project.Views[1].Widgets
	assert.Equal(t, "/", widgets[0].Flutter.Route)
	assert.True(t, registered[widgets[0].Flutter.Route])
	assert.Equal(t, "/details", widgets[1].Flutter.Route)
	assert.Equal(t, "/checkout", widgets[2].Flutter.Route, "unknown targets keep a route by name")
}

func TestAnnotateViewRoutesAreUnique(t *testing.T) {
	structure := models.UIStructure{
		{Name: "Inicio"},
		{Name: "Ajustes"},
		{Name: "ajustes"},
		{Name: "設定"},
		{Name: "!!!"},
	}

	project := Annotate(structure)
	want := []struct{ route, file string }{
		{"/", "lib/views/inicio.dart"},
		{"/ajustes", "lib/views/ajustes.dart"},
		{"/ajustes_2", "lib/views/ajustes_2.dart"},
		{"/view4", "lib/views/view4.dart"},
		{"/view5", "lib/views/view5.dart"},
	}
	routes := make(map[string]bool)
	files := make(map[string]bool)
	for i, v := range project.Views {
		assert.Equal(t, want[i].route, v.Route, v.Name)
		assert.Equal(t, want[i].file, v.File, v.Name)
		routes[v.Route] = true
		files[v.File] = true
	}
	assert.Len(t, routes, len(structure))
	assert.Len(t, files, len(structure))
}

func TestAnnotateNavigateToUnnamedTarget(t *testing.T) {
	structure := models.UIStructure{
		{Name: "Home", Widgets: []models.Widget{
			{Type: "button", Properties: models.Properties{NavigateTo: "設定"}},
		}},
	}
	project := Annotate(structure)
	assert.Nil(t, project.Views[0].Widgets[0].Flutter, "a target without a slug gets no route")
}
