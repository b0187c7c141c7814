package codegen

import (
	"encoding/json"
	"strings"
)

// ============================================================
// Prompts
// ============================================================

const systemPrompt = `You are an expert Flutter developer. Your task is to turn a JSON description of a UI into a complete, modular, working and up-to-date Flutter project.
Use Material 3 (useMaterial3: true) throughout the theme configuration, including backgroundColor and foregroundColor.
Define colors the modern way with ColorScheme.fromSeed() and set up modern typography with GoogleFonts (for example GoogleFonts.poppinsTextTheme(), Poppins or Roboto, never Arial), dependency google_fonts: ^6.2.1.
The response MUST BE ONLY a JSON array of files. Every file object must have "path" and "content".
Do NOT include explanatory text, markdown or comments outside the main JSON structure.`

const humanPromptTail = `
Generate:
1. A lib/main.dart with MaterialApp, routes (the first view is the initial route '/') and basic navigation. Every view has its route in "route".
2. One Dart class per view, in the file given by the view's "file" (lib/views/<view_name_snake_case>.dart).
3. A valid pubspec.yaml. The project name is "projectName". Dependencies: flutter, cupertino_icons, google_fonts. flutter_lints in dev_dependencies.
4. Reusable widgets in lib/widgets/ for repeated or complex elements. Every entry of "components" must become a widget class with that name in that file, and every widget whose flutter.component is set must use it.
5. Use StatefulWidget only when strictly necessary for simple local state (for example controlling a text field). Prefer StatelessWidget.
6. Navigate with Navigator.pushNamed(context, '/route') when a widget has properties.navigateTo; the target route is in flutter.route.
7. For text_input use TextFormField and add basic validation when the placeholder or description suggests it.
8. Implement a basic theme and consistent styles. Use Theme.of(context) to access styles.
9. Colors are already converted: use flutter.color and flutter.backgroundColor as given (Color(0xAARRGGBB), alpha FF when the source had none).
10. Padding and margin are already converted: use flutter.padding and flutter.margin as given (EdgeInsets).
11. Icons are already mapped: use flutter.icon as given (unknown names map to Icons.help_outline).
12. Images are already resolved: use flutter.image as given (Image.network for a sourceUrl, otherwise a Placeholder sized from width/height, 100x100 by default).

Make sure to:
- Follow Flutter best practices (separate UI and logic).
- Use efficient widgets, adding const wherever possible.
- Produce well formatted code, with comments where the logic is complex.
- Keep the code modular and maintainable.

Return all files in a SINGLE JSON array with exactly this format:
[
  { "path": "lib/views/products_view.dart", "content": "..." },
  { "path": "lib/widgets/custom_button.dart", "content": "..." },
  { "path": "pubspec.yaml", "content": "..." }
]
The JSON must be valid and well formatted. Do NOT include any text outside the JSON array.
`

// BuildHumanPrompt встраивает аннотированную структуру в запрос.
func BuildHumanPrompt(project annotatedProject) (string, error) {
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("From the following structured JSON describing a Flutter application:\n```json\n")
	b.Write(data)
	b.WriteString("\n```\n")
	b.WriteString(humanPromptTail)
	return b.String(), nil
}
