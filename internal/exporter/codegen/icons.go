package codegen

// FallbackIcon подставляется для имён, которых нет среди Material Icons ниже.
const FallbackIcon = "Icons.help_outline"

// materialIcons: часто встречающиеся имена Material Icons.
var materialIcons = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"account_circle", "add", "add_circle", "add_shopping_cart", "alarm", "apps",
		"arrow_back", "arrow_back_ios", "arrow_downward", "arrow_forward", "arrow_forward_ios", "arrow_upward",
		"attach_file", "bookmark", "bookmark_border", "calendar_today", "call", "camera_alt",
		"chat", "chat_bubble", "check", "check_circle", "chevron_left", "chevron_right",
		"close", "cloud", "comment", "credit_card", "dashboard", "delete",
		"done", "download", "edit", "email", "error", "event",
		"explore", "favorite", "favorite_border", "filter_list", "flag", "folder",
		"help", "help_outline", "history", "home", "image", "info",
		"info_outline", "keyboard_arrow_down", "keyboard_arrow_right", "language", "list", "location_on",
		"lock", "login", "logout", "mail", "map", "menu",
		"message", "mic", "more_horiz", "more_vert", "music_note", "notifications",
		"notifications_none", "person", "person_add", "person_outline", "phone", "photo",
		"photo_camera", "place", "play_arrow", "play_circle", "refresh", "remove",
		"save", "search", "send", "settings", "share", "shopping_bag",
		"shopping_cart", "sort", "star", "star_border", "star_half", "store",
		"thumb_up", "thumb_down", "timer", "upload", "visibility", "visibility_off",
		"wallet", "warning", "wifi", "work",
	} {
		materialIcons[name] = struct{}{}
	}
}
