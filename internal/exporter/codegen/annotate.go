package codegen

import (
	"strconv"
	"strings"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Annotated structure
// ============================================================

// flutterHints: готовые выражения Dart, посчитанные заранее, чтобы модель
// не выводила их сама.
type flutterHints struct {
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Padding         string `json:"padding,omitempty"`
	Margin          string `json:"margin,omitempty"`
	Icon            string `json:"icon,omitempty"`
	Image           string `json:"image,omitempty"`
	Route           string `json:"route,omitempty"`
	Component       string `json:"component,omitempty"`
}

type annotatedWidget struct {
	Type        string            `json:"type"`
	Text        string            `json:"text,omitempty"`
	Description string            `json:"description,omitempty"`
	Properties  models.Properties `json:"properties"`
	Flutter     *flutterHints     `json:"flutter,omitempty"`
	Children    []annotatedWidget `json:"children,omitempty"`
}

type annotatedView struct {
	Name    string            `json:"name"`
	Route   string            `json:"route"`
	File    string            `json:"file"`
	Widgets []annotatedWidget `json:"widgets"`
}

type component struct {
	Name        string `json:"name"`
	File        string `json:"file"`
	Shape       string `json:"shape"`
	Occurrences int    `json:"occurrences"`
}

type annotatedProject struct {
	ProjectName string          `json:"projectName"`
	Views       []annotatedView `json:"views"`
	Components  []component     `json:"components,omitempty"`
}

// shapeOf строит сигнатуру составного виджета из типа и типы прямых детей.
func shapeOf(w *models.Widget) string {
	if len(w.Children) == 0 {
		return ""
	}
	types := make([]string, len(w.Children))
	for i := range w.Children {
		types[i] = w.Children[i].Type
	}
	return w.Type + "(" + strings.Join(types, ",") + ")"
}

// walkWidgets обходит все виджеты структуры в порядке документа без рекурсии.
func walkWidgets(structure models.UIStructure, fn func(w *models.Widget)) {
	var stack []*models.Widget
	for vi := len(structure) - 1; vi >= 0; vi-- {
		for wi := len(structure[vi].Widgets) - 1; wi >= 0; wi-- {
			stack = append(stack, &structure[vi].Widgets[wi])
		}
	}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(w)
		for i := len(w.Children) - 1; i >= 0; i-- {
			stack = append(stack, &w.Children[i])
		}
	}
}

// detectComponents находит составные виджеты, повторяющиеся хотя бы дважды.
// Срез сохраняет порядок первого появления, карта индексирует по сигнатуре.
func detectComponents(structure models.UIStructure) ([]*component, map[string]*component) {
	counts := make(map[string]int)
	var order []string
	walkWidgets(structure, func(w *models.Widget) {
		shape := shapeOf(w)
		if shape == "" {
			return
		}
		if counts[shape] == 0 {
			order = append(order, shape)
		}
		counts[shape]++
	})

	var list []*component
	index := make(map[string]*component)
	used := make(map[string]int)
	for _, shape := range order {
		if counts[shape] < 2 {
			continue
		}
		base := "Custom" + pascalCase(shape[:strings.IndexByte(shape, '(')])
		used[base]++
		name := base
		if used[base] > 1 {
			name = base + strconv.Itoa(used[base])
		}
		c := &component{
			Name:        name,
			File:        "lib/widgets/" + SnakeCase(name) + ".dart",
			Shape:       shape,
			Occurrences: counts[shape],
		}
		list = append(list, c)
		index[shape] = c
	}
	return list, index
}

// viewRoute: маршрут и файл одного экрана.
type viewRoute struct {
	route string
	file  string
}

// routeTable: уникальные маршруты экранов и индекс для navigateTo.
type routeTable struct {
	views  []viewRoute
	byName map[string]string // snake_case имени экрана -> маршрут
}

// assignViewRoutes выдаёт каждому экрану уникальный слаг: пустой слаг
// заменяется на view<N>, повтор получает числовой суффикс. Первый экран
// всегда открывается по "/".
func assignViewRoutes(structure models.UIStructure) *routeTable {
	table := &routeTable{
		views:  make([]viewRoute, len(structure)),
		byName: make(map[string]string, len(structure)),
	}
	taken := make(map[string]bool, len(structure))

	for vi := range structure {
		name := SnakeCase(structure[vi].Name)
		base := name
		if base == "" {
			base = "view" + strconv.Itoa(vi+1)
		}
		slug := base
		for n := 2; taken[slug]; n++ {
			slug = base + "_" + strconv.Itoa(n)
		}
		taken[slug] = true

		route := "/" + slug
		if vi == 0 {
			route = "/"
		}
		table.views[vi] = viewRoute{route: route, file: "lib/views/" + slug + ".dart"}

		if _, ok := table.byName[slug]; !ok {
			table.byName[slug] = route
		}
		if _, ok := table.byName[name]; !ok && name != "" {
			table.byName[name] = route
		}
	}
	return table
}

// resolve сопоставляет цель navigateTo с маршрутом экрана. Неизвестная
// цель превращается в маршрут по имени; цель без слага маршрута не получает.
func (t *routeTable) resolve(target string) string {
	key := SnakeCase(target)
	if key == "" {
		return ""
	}
	if route, ok := t.byName[key]; ok {
		return route
	}
	return RouteName(target)
}

func hintsFor(w *models.Widget, components map[string]*component, routes *routeTable) *flutterHints {
	p := w.Properties
	h := flutterHints{}
	if p.Color != nil {
		h.Color = DartColor(*p.Color)
	}
	if p.BackgroundColor != nil {
		h.BackgroundColor = DartColor(*p.BackgroundColor)
	}
	if p.Padding != nil {
		h.Padding = EdgeInsets(*p.Padding)
	}
	if p.Margin != nil {
		h.Margin = EdgeInsets(*p.Margin)
	}
	if p.IconName != "" || w.Type == "icon" || w.Type == "icon_button" {
		h.Icon = IconRef(p.IconName)
	}
	if w.Type == "image" {
		h.Image = ImageWidget(p)
	}
	if p.NavigateTo != "" {
		h.Route = routes.resolve(p.NavigateTo)
	}
	if c, ok := components[shapeOf(w)]; ok {
		h.Component = c.Name
	}
	if h == (flutterHints{}) {
		return nil
	}
	return &h
}

// Annotate строит описание проекта для промпта: структура плюс подсказки.
// Дерево копируется явным стеком; срезы детей выделяются заранее.
func Annotate(structure models.UIStructure) annotatedProject {
	list, components := detectComponents(structure)

	project := annotatedProject{
		ProjectName: ProjectName(structure),
		Views:       make([]annotatedView, len(structure)),
	}

	type frame struct {
		src *models.Widget
		dst *annotatedWidget
	}
	var stack []frame

	routes := assignViewRoutes(structure)

	for vi := range structure {
		view := &structure[vi]
		project.Views[vi] = annotatedView{
			Name:    view.Name,
			Route:   routes.views[vi].route,
			File:    routes.views[vi].file,
			Widgets: make([]annotatedWidget, len(view.Widgets)),
		}
		for wi := range view.Widgets {
			stack = append(stack, frame{src: &view.Widgets[wi], dst: &project.Views[vi].Widgets[wi]})
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		*top.dst = annotatedWidget{
			Type:        top.src.Type,
			Text:        top.src.Text,
			Description: top.src.Description,
			Properties:  top.src.Properties,
			Flutter:     hintsFor(top.src, components, routes),
		}
		if len(top.src.Children) == 0 {
			continue
		}
		top.dst.Children = make([]annotatedWidget, len(top.src.Children))
		for i := range top.src.Children {
			stack = append(stack, frame{src: &top.src.Children[i], dst: &top.dst.Children[i]})
		}
	}

	for _, c := range list {
		project.Components = append(project.Components, *c)
	}
	return project
}
