package mission

var prompts = []string{
	"Help rescue the little number friends who got stuck!",
	"Use your multiplication magic to open the sparkling chest.",
	"Save the star crew stranded on the rainbow bridge.",
	"Help the music sprites finish their happy song.",
}

var narrativeHooks = []string{
	"The river in Number Kingdom froze over. Your answer can melt the ice.",
	"The shiny medal is locked away and only a correct product holds the key.",
	"The friendly space fox needs fuel to fly. Give it the right energy!",
	"The wise owl is testing you. Show off your super brain power.",
}

var rewardHints = []string{
	"Two more right answers and you earn a bubble sticker!",
	"Keep the streak going and a shining star will appear.",
	"Master this row and a limited-edition cape is yours.",
	"Win a heart on the family leaderboard.",
}
