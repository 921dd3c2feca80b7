package program

// TemplateEntry is one slot of a weekly template day: the exercise wanted
// there, the catalog names it may appear under, whether it counts as a base
// lift and the baseline set count. Base lifts keep their sets and get the
// heavier rep ranges through the strength block.
type TemplateEntry struct {
	Name    string
	IsBase  bool
	Sets    int
	Aliases []string
}

// The two weekly templates: Base runs weeks 1 to 4, Variant weeks 5 to 12.
// The strength and deload blocks reuse Variant's exercise selection and only
// change set and rep numbers. Chest focused, no barbell bench, overhead work
// with dumbbells. Base lifts stay fixed, accessories rotate between the two.
var baseTemplate = map[string][]TemplateEntry{
	DayUpperA: {
		{Name: "Lutande hantelpress", IsBase: true, Sets: 4, Aliases: []string{"Lutande hantelpress", "Lutande press"}},
		{Name: "Kabel-flyes (hög→låg)", Sets: 3, Aliases: []string{"Kabel-flyes (hög→låg)", "Kabel-flyes hög", "Kabel flyes hög"}},
		{Name: "Enarms kabelpress", Sets: 3, Aliases: []string{"Enarms kabelpress", "Kabelpress"}},
		{Name: "Enarms hantelrodd", Sets: 3, Aliases: []string{"Enarms hantelrodd", "Hantelrodd"}},
		{Name: "Sidolyft hantlar", Sets: 3, Aliases: []string{"Sidolyft hantlar", "Sidolyft"}},
		{Name: "Triceps pushdown", Sets: 3, Aliases: []string{"Triceps pushdown", "Pushdown"}},
	},
	DayLowerA: {
		{Name: "Knäböj", IsBase: true, Sets: 4, Aliases: []string{"Knäböj", "Böj", "Squat"}},
		{Name: "Raka marklyft (RDL)", IsBase: true, Sets: 4, Aliases: []string{"Raka marklyft (RDL)", "RDL", "Raka marklyft"}},
		{Name: "Bulgarian split squat", Sets: 3, Aliases: []string{"Bulgarian split squat", "Bulgarian"}},
		{Name: "Kabel pull-through", Sets: 3, Aliases: []string{"Kabel pull-through", "Pull-through"}},
		{Name: "Vadpress", Sets: 3, Aliases: []string{"Vadpress", "Calf raise"}},
		{Name: "Kabel-crunch", Sets: 3, Aliases: []string{"Kabel-crunch", "Cable crunch"}},
	},
	DayUpperB: {
		{Name: "Hantelpress plan bänk", IsBase: true, Sets: 4, Aliases: []string{"Hantelpress plan bänk", "Hantelpress"}},
		{Name: "Kabel-flyes (låg→hög)", Sets: 3, Aliases: []string{"Kabel-flyes (låg→hög)", "Kabel-flyes låg", "Kabel flyes låg"}},
		{Name: "Lutande kabelpress", Sets: 3, Aliases: []string{"Lutande kabelpress", "Kabelpress"}},
		{Name: "Sittande kabelrodd", Sets: 3, Aliases: []string{"Sittande kabelrodd", "Kabelrodd"}},
		{Name: "Face pull", Sets: 3, Aliases: []string{"Face pull", "Facepull"}},
		{Name: "Axelpress hantlar", Sets: 3, Aliases: []string{"Axelpress hantlar", "Axelpress"}},
		{Name: "Bicepscurl hantlar", Sets: 3, Aliases: []string{"Bicepscurl hantlar", "Bicepscurl"}},
	},
	DayLowerB: {
		{Name: "Marklyft", IsBase: true, Sets: 3, Aliases: []string{"Marklyft", "Mark"}},
		{Name: "Frontböj", IsBase: true, Sets: 3, Aliases: []string{"Frontböj", "Front squat", "Goblet squat", "Goblet"}},
		{Name: "Hip thrust", IsBase: true, Sets: 4, Aliases: []string{"Hip thrust", "Hipthrust"}},
		{Name: "Bakåtlunges", Sets: 3, Aliases: []string{"Bakåtlunges", "Lunges bak"}},
		{Name: "Vadpress", Sets: 3, Aliases: []string{"Vadpress", "Calf raise"}},
		{Name: "Kabel woodchop", Sets: 3, Aliases: []string{"Kabel woodchop", "Woodchop"}},
	},
}

var variantTemplate = map[string][]TemplateEntry{
	DayUpperA: {
		{Name: "Lutande hantelpress", IsBase: true, Sets: 4, Aliases: []string{"Lutande hantelpress", "Lutande press"}},
		// flye angle and press/row variants swap with Upper B
		{Name: "Kabel-flyes (låg→hög)", Sets: 3, Aliases: []string{"Kabel-flyes (låg→hög)", "Kabel-flyes låg", "Kabel flyes låg"}},
		{Name: "Lutande kabelpress", Sets: 3, Aliases: []string{"Lutande kabelpress", "Kabelpress"}},
		{Name: "Sittande kabelrodd", Sets: 3, Aliases: []string{"Sittande kabelrodd", "Kabelrodd"}},
		{Name: "Sidolyft hantlar", Sets: 3, Aliases: []string{"Sidolyft hantlar", "Sidolyft"}},
		{Name: "Triceps pushdown", Sets: 3, Aliases: []string{"Triceps pushdown", "Pushdown"}},
	},
	DayLowerA: {
		{Name: "Knäböj", IsBase: true, Sets: 4, Aliases: []string{"Knäböj", "Böj", "Squat"}},
		{Name: "Raka marklyft (RDL)", IsBase: true, Sets: 4, Aliases: []string{"Raka marklyft (RDL)", "RDL", "Raka marklyft"}},
		// lunges replace the bulgarians, which move to Lower B
		{Name: "Bakåtlunges", Sets: 3, Aliases: []string{"Bakåtlunges", "Lunges bak"}},
		{Name: "Kabel pull-through", Sets: 3, Aliases: []string{"Kabel pull-through", "Pull-through"}},
		{Name: "Vadpress", Sets: 3, Aliases: []string{"Vadpress", "Calf raise"}},
		{Name: "Kabel-crunch", Sets: 3, Aliases: []string{"Kabel-crunch", "Cable crunch"}},
	},
	DayUpperB: {
		{Name: "Hantelpress plan bänk", IsBase: true, Sets: 4, Aliases: []string{"Hantelpress plan bänk", "Hantelpress"}},
		{Name: "Kabel-flyes (hög→låg)", Sets: 3, Aliases: []string{"Kabel-flyes (hög→låg)", "Kabel-flyes hög", "Kabel flyes hög"}},
		{Name: "Enarms kabelpress", Sets: 3, Aliases: []string{"Enarms kabelpress", "Kabelpress"}},
		{Name: "Sittande kabelrodd", Sets: 3, Aliases: []string{"Sittande kabelrodd", "Kabelrodd"}},
		{Name: "Face pull", Sets: 3, Aliases: []string{"Face pull", "Facepull"}},
		{Name: "Axelpress hantlar", Sets: 3, Aliases: []string{"Axelpress hantlar", "Axelpress"}},
		{Name: "Bicepscurl hantlar", Sets: 3, Aliases: []string{"Bicepscurl hantlar", "Bicepscurl"}},
	},
	DayLowerB: {
		{Name: "Marklyft", IsBase: true, Sets: 3, Aliases: []string{"Marklyft", "Mark"}},
		// goblet squat when the catalog has it, front squat otherwise
		{Name: "Goblet squat", IsBase: true, Sets: 3, Aliases: []string{"Goblet squat", "Goblet", "Frontböj", "Front squat"}},
		{Name: "Hip thrust", IsBase: true, Sets: 4, Aliases: []string{"Hip thrust", "Hipthrust"}},
		{Name: "Bulgarian split squat", Sets: 3, Aliases: []string{"Bulgarian split squat", "Bulgarian"}},
		{Name: "Vadpress", Sets: 3, Aliases: []string{"Vadpress", "Calf raise"}},
		{Name: "Kabel woodchop", Sets: 3, Aliases: []string{"Kabel woodchop", "Woodchop"}},
	},
}

// TemplateForWeek picks the weekly template for a 1-based program week.
func TemplateForWeek(week int) map[string][]TemplateEntry {
	if week <= 4 {
		return baseTemplate
	}
	return variantTemplate
}
