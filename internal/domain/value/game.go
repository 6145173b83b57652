package value

import "strings"

// Game — канонический идентификатор игры, под который заведены настройки вилок.
type Game string

const (
	GamePokemon         Game = "pokemon"
	GameJapanesePokemon Game = "japanese-pokemon"
	GameMagic           Game = "magic"
	GameYugioh          Game = "yugioh"
	GameLorcana         Game = "lorcana"
	GameOnePiece        Game = "one-piece"
	GameSports          Game = "sports"
	GameOther           Game = "other"
)

// DefaultGame используется, когда клиент прислал неизвестное название.
const DefaultGame = GamePokemon

func (g Game) String() string {
	return string(g)
}

//nolint:gochecknoglobals
var gameAliases = map[string]Game{
	"pokemon":              GamePokemon,
	"pokemon tcg":          GamePokemon,
	"pkmn":                 GamePokemon,
	"japanese-pokemon":     GameJapanesePokemon,
	"japanese pokemon":     GameJapanesePokemon,
	"jp pokemon":           GameJapanesePokemon,
	"pokemon japan":        GameJapanesePokemon,
	"magic":                GameMagic,
	"mtg":                  GameMagic,
	"magic: the gathering": GameMagic,
	"magic the gathering":  GameMagic,
	"yugioh":               GameYugioh,
	"yu-gi-oh":             GameYugioh,
	"yu-gi-oh!":            GameYugioh,
	"ygo":                  GameYugioh,
	"lorcana":              GameLorcana,
	"disney lorcana":       GameLorcana,
	"one-piece":            GameOnePiece,
	"one piece":            GameOnePiece,
	"op tcg":               GameOnePiece,
	"sports":               GameSports,
	"sports cards":         GameSports,
	"other":                GameOther,
}

// Частые диакритики из пользовательского ввода ("Pokémon" и т.п.).
//
//nolint:gochecknoglobals
var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e",
	"á", "a", "à", "a",
	"ó", "o", "ú", "u", "í", "i",
)

// NormalizeGame приводит произвольную строку к каноническому идентификатору.
// Непонятный ввод превращается в DefaultGame, а не в ошибку: так ведёт себя
// и админка настроек, заполняющая таблицу вилок.
func NormalizeGame(raw string) Game {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = accentFolder.Replace(key)

	if game, ok := gameAliases[key]; ok {
		return game
	}

	return DefaultGame
}
