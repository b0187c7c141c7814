package inference

import (
	"encoding/json"
	"strings"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Prompt
// ============================================================

const promptHead = `From this image of a mobile screen and, optionally, the design JSON that accompanies it, produce structured JSON describing the detected views (name) and, inside each one, its widgets. For every widget include:

- type (button, text, image, container, row, column, stack, list_item, app_bar, bottom_navigation_bar, text_input, card, icon_button, floating_action_button, etc.)
- text or description (the visible text, when there is any)
- properties (style, color, size, font, padding, margin, alignment, iconName for an icon_button, etc. Be very specific with colors, always hexadecimal #RRGGBB or #AARRGGBB)
- children (for containers such as container, row, column, card, list_item, stack, list the child widgets)

Analyze carefully:
1. The element hierarchy (what contains what). Use "container" elements for grouping.
2. The exact colors (hexadecimal #RRGGBB).
3. Relative and absolute dimensions when they can be inferred.
4. Text styles (size in points, weight such as 'bold' or 'normal', family when recognizable).
5. Spacing and margins (infer padding and margin around elements, as a number or a "top,right,bottom,left" string).
6. Navigation elements (tabs, drawer, AppBar, BottomNavigationBar). Give them clear types. When an element leads to another view, set properties.navigateTo to that view's name.
7. Design patterns (cards, lists, grids). A card may have children. A list is an array of list_item widgets.
8. For text_input, include properties such as placeholder or label.
9. For image, say whether it is a placeholder. If it looks like a real picture just use type "image" and, if you can infer a placeholder URL such as "https://placehold.co/WIDTHxHEIGHT", put it in properties.sourceUrl.
`

const promptTail = `
The response must be an array of views, each with a name and its widgets, inside a single fenced json code block:
` + "```json" + `
[{"name": "Home", "widgets": [{"type": "text", "text": "...", "properties": {}, "children": []}]}]
` + "```\n"

// BuildPrompt собирает текст запроса. Снимок, если есть, прикладывается
// как подсказка о структуре на случай нечёткого изображения.
func BuildPrompt(snap *models.Snapshot) (string, error) {
	var b strings.Builder
	b.WriteString(promptHead)

	if snap != nil {
		hint, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", err
		}
		b.WriteString("\nDesign JSON (optional, structural reference for when the image is unclear):\n```json\n")
		b.Write(hint)
		b.WriteString("\n```\n")
	}

	b.WriteString(promptTail)
	return b.String(), nil
}
