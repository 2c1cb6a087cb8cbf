package domain

// ─── Score Tiers ────────────────────────────────────────────────────────────

// Tier is a named display band of the trust score. Tiers are a pure
// accessory to the score, never persisted.
type Tier struct {
	Min  int    `json:"min"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Tiers is the display ladder, sorted ascending by Min. The score itself
// has no ceiling, so everything from 1000 up lands in the last band.
var Tiers = []Tier{
	{Min: 0, Name: "Нуб", Desc: "Хуже некуда. Срочно исправляйся!"},
	{Min: 100, Name: "Токсик", Desc: "Душно, сложно, тяжело."},
	{Min: 200, Name: "Душнила", Desc: "С тобой непросто."},
	{Min: 300, Name: "Нормис", Desc: "Ни рыба ни мясо."},
	{Min: 400, Name: "Старательный", Desc: "Ты пытаешься, это видно."},
	{Min: 500, Name: "Зайка", Desc: "Комфортный уровень отношений."},
	{Min: 600, Name: "Котик", Desc: "Мур-мур, все хорошо."},
	{Min: 700, Name: "Краш", Desc: "Сердечко бьется чаще."},
	{Min: 800, Name: "Легенда", Desc: "Пример для подражания."},
	{Min: 900, Name: "Идеал", Desc: "Ты существуешь вообще?"},
	{Min: 1000, Name: "Божество", Desc: "Google Standards Quality."},
}

// TierFor returns the highest band whose minimum is ≤ score.
func TierFor(score int) Tier {
	selected := Tiers[0]
	for _, t := range Tiers {
		if score >= t.Min {
			selected = t
		}
	}
	return selected
}
