package telegram

const helpText = `*Welcome to the Weather Bot!*

/weather [city] - Get current weather. Shows all your locations if no city is specified.
/add <city> - Add a city to your daily alert list.
/remove <city> - Remove a city from your list.
/list - View your list of registered locations.
/history <YYYY-MM-DD> <city> - Get past weather for a city.
/help - Show this help message.`

const (
	textUnauthorized   = "You are not allowed to use this bot."
	textForbidden      = "You are not authorized to use this command."
	textUnknownCommand = "Unknown command. Use /help to see what I can do."
	textNoNestedMock   = "Nested /mock is not allowed."
	textNoLocations    = "You have no locations saved. Add one with /add <city>."
	textStoreFailure   = "Could not save your locations. Please try again later."

	usageAdd     = "Usage: /add <city>"
	usageRemove  = "Usage: /remove <city>"
	usageHistory = "Usage: /history <YYYY-MM-DD> <city>"
	usageMock    = "Usage: /mock <command> [args...] <user-id>"
)
