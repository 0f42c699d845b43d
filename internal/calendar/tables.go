package calendar

import "fmt"

// SeasonID identifies a liturgical season.
type SeasonID string

const (
	SeasonAdvent        SeasonID = "ADVENT"
	SeasonChristmas     SeasonID = "CHRISTMAS"
	SeasonEpiphany      SeasonID = "EPIPHANY"
	SeasonLent          SeasonID = "LENT"
	SeasonHolyWeek      SeasonID = "HOLY_WEEK"
	SeasonEaster        SeasonID = "EASTER"
	SeasonPentecost     SeasonID = "PENTECOST"
	SeasonTrinity       SeasonID = "TRINITY"
	SeasonOrdinary      SeasonID = "ORDINARY"
	SeasonReformation   SeasonID = "REFORMATION"
	SeasonAllSaints     SeasonID = "ALL_SAINTS"
	SeasonChristTheKing SeasonID = "CHRIST_THE_KING"
	SeasonUnknown       SeasonID = "UNKNOWN"
)

// SpecialDayID identifies a feast or special observance.
// The zero value means no special day applies.
type SpecialDayID string

const (
	NoSpecialDay SpecialDayID = ""

	ChristmasEve      SpecialDayID = "CHRISTMAS_EVE"
	ChristmasDay      SpecialDayID = "CHRISTMAS_DAY"
	Epiphany          SpecialDayID = "EPIPHANY"
	BaptismOfOurLord  SpecialDayID = "BAPTISM_OF_OUR_LORD"
	Transfiguration   SpecialDayID = "TRANSFIGURATION"
	FirstSundayAdvent SpecialDayID = "ADVENT_1"
	AshWednesday      SpecialDayID = "ASH_WEDNESDAY"
	LentenMidweek     SpecialDayID = "LENTEN_MIDWEEK"
	PalmSunday        SpecialDayID = "PALM_SUNDAY"
	MaundyThursday    SpecialDayID = "MAUNDY_THURSDAY"
	GoodFriday        SpecialDayID = "GOOD_FRIDAY"
	EasterSunday      SpecialDayID = "EASTER_SUNDAY"
	Ascension         SpecialDayID = "ASCENSION"
	PentecostSunday   SpecialDayID = "PENTECOST"
	TrinitySunday     SpecialDayID = "TRINITY_SUNDAY"
	Reformation       SpecialDayID = "REFORMATION"
	AllSaints         SpecialDayID = "ALL_SAINTS"
	ChristTheKing     SpecialDayID = "CHRIST_THE_KING"
	ThanksgivingEve   SpecialDayID = "THANKSGIVING_EVE"
	Thanksgiving      SpecialDayID = "THANKSGIVING"
)

// Season is a named span of the church year and its display color.
type Season struct {
	ID    SeasonID `json:"id"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
}

// FeastDay is a single-date observance. Season is the season the day
// governs when it applies; every feast must name one.
type FeastDay struct {
	ID          SpecialDayID `json:"id"`
	Name        string       `json:"name"`
	Color       string       `json:"color"`
	Description string       `json:"description"`
	Season      SeasonID     `json:"season"`
}

// Liturgical colors.
const (
	colorPurple  = "#5B2A86"
	colorBlue    = "#1F4E9C"
	colorWhite   = "#FFFFFF"
	colorGold    = "#D4AF37"
	colorGreen   = "#2E7D32"
	colorRed     = "#C62828"
	colorScarlet = "#8B0000"
	colorBlack   = "#000000"
	colorGray    = "#808080"
)

var seasons = map[SeasonID]Season{
	SeasonAdvent:        {SeasonAdvent, "Advent", colorBlue},
	SeasonChristmas:     {SeasonChristmas, "Christmas", colorWhite},
	SeasonEpiphany:      {SeasonEpiphany, "Epiphany", colorGreen},
	SeasonLent:          {SeasonLent, "Lent", colorPurple},
	SeasonHolyWeek:      {SeasonHolyWeek, "Holy Week", colorScarlet},
	SeasonEaster:        {SeasonEaster, "Easter", colorWhite},
	SeasonPentecost:     {SeasonPentecost, "Day of Pentecost", colorRed},
	SeasonTrinity:       {SeasonTrinity, "Trinity", colorWhite},
	SeasonOrdinary:      {SeasonOrdinary, "Ordinary Time", colorGreen},
	SeasonReformation:   {SeasonReformation, "Reformation", colorRed},
	SeasonAllSaints:     {SeasonAllSaints, "All Saints", colorWhite},
	SeasonChristTheKing: {SeasonChristTheKing, "Christ the King", colorWhite},
	SeasonUnknown:       {SeasonUnknown, "Unknown", colorGray},
}

var feastDays = map[SpecialDayID]FeastDay{
	ChristmasEve: {ChristmasEve, "Christmas Eve", colorWhite,
		"The eve of the Nativity of Our Lord", SeasonChristmas},
	ChristmasDay: {ChristmasDay, "Christmas Day", colorWhite,
		"The Nativity of Our Lord", SeasonChristmas},
	Epiphany: {Epiphany, "Epiphany of Our Lord", colorWhite,
		"The manifestation of Christ to the Gentiles", SeasonEpiphany},
	BaptismOfOurLord: {BaptismOfOurLord, "Baptism of Our Lord", colorWhite,
		"First Sunday after the Epiphany", SeasonEpiphany},
	Transfiguration: {Transfiguration, "Transfiguration of Our Lord", colorWhite,
		"Last Sunday before Ash Wednesday", SeasonEpiphany},
	FirstSundayAdvent: {FirstSundayAdvent, "First Sunday of Advent", colorBlue,
		"Beginning of the church year", SeasonAdvent},
	AshWednesday: {AshWednesday, "Ash Wednesday", colorBlack,
		"Beginning of Lent", SeasonLent},
	LentenMidweek: {LentenMidweek, "Lenten Midweek", colorPurple,
		"Midweek Lenten service", SeasonLent},
	PalmSunday: {PalmSunday, "Palm Sunday", colorScarlet,
		"Sunday of the Passion; beginning of Holy Week", SeasonHolyWeek},
	MaundyThursday: {MaundyThursday, "Maundy Thursday", colorScarlet,
		"Institution of the Lord's Supper", SeasonHolyWeek},
	GoodFriday: {GoodFriday, "Good Friday", colorBlack,
		"The Crucifixion of Our Lord", SeasonHolyWeek},
	EasterSunday: {EasterSunday, "Easter Sunday", colorGold,
		"The Resurrection of Our Lord", SeasonEaster},
	Ascension: {Ascension, "Ascension of Our Lord", colorWhite,
		"Forty days after the Resurrection", SeasonEaster},
	PentecostSunday: {PentecostSunday, "Day of Pentecost", colorRed,
		"The outpouring of the Holy Spirit", SeasonPentecost},
	TrinitySunday: {TrinitySunday, "Holy Trinity", colorWhite,
		"First Sunday after Pentecost", SeasonTrinity},
	Reformation: {Reformation, "Reformation Sunday", colorRed,
		"Last Sunday in October", SeasonReformation},
	AllSaints: {AllSaints, "All Saints Sunday", colorWhite,
		"Commemoration of all the faithful departed", SeasonAllSaints},
	ChristTheKing: {ChristTheKing, "Christ the King", colorWhite,
		"Last Sunday of the church year", SeasonChristTheKing},
	ThanksgivingEve: {ThanksgivingEve, "Thanksgiving Eve", colorWhite,
		"Wednesday before Thanksgiving Day", SeasonOrdinary},
	Thanksgiving: {Thanksgiving, "Thanksgiving Day", colorWhite,
		"Fourth Thursday in November", SeasonOrdinary},
}

func init() {
	for id, f := range feastDays {
		if f.ID != id {
			panic(fmt.Sprintf("calendar: feast table key %s holds %s", id, f.ID))
		}
		if _, ok := seasons[f.Season]; !ok {
			panic(fmt.Sprintf("calendar: feast %s maps to unknown season %q", id, f.Season))
		}
	}
	for _, p := range specialDayChecks {
		if _, ok := feastDays[p.id]; !ok {
			panic(fmt.Sprintf("calendar: special day %s has no feast entry", p.id))
		}
	}
}

// LookupSeason returns the season for id, or the Unknown season.
func LookupSeason(id SeasonID) Season {
	if s, ok := seasons[id]; ok {
		return s
	}
	return seasons[SeasonUnknown]
}

// LookupFeast returns the feast for id.
func LookupFeast(id SpecialDayID) (FeastDay, bool) {
	f, ok := feastDays[id]
	return f, ok
}

// Seasons returns every season, Unknown included.
func Seasons() []Season {
	out := make([]Season, 0, len(seasons))
	for _, s := range seasons {
		out = append(out, s)
	}
	return out
}

// FeastDays returns every feast day.
func FeastDays() []FeastDay {
	out := make([]FeastDay, 0, len(feastDays))
	for _, f := range feastDays {
		out = append(out, f)
	}
	return out
}
