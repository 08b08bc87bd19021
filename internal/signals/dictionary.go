// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package signals

// Genre is a named bucket of keywords. A text belongs to the genre when any
// keyword occurs in it as a substring.
type Genre struct {
	Name     string
	Keywords []string
}

// genres is the fixed genre dictionary, in reporting order.
var genres = []Genre{
	{Name: "gaming", Keywords: []string{
		"gaming", "gameplay", "minecraft", "fortnite", "playthrough", "walkthrough",
		"speedrun", "esports", "nintendo", "playstation", "xbox", "roblox", "gamer",
		"let's play", "valorant",
	}},
	{Name: "music", Keywords: []string{
		"music", "song", "album", "lyrics", "guitar", "piano", "concert", "remix",
		"cover", "official video", "beat", "rap", "singer", "acoustic", "playlist",
	}},
	{Name: "tech", Keywords: []string{
		"tech", "iphone", "android", "unboxing", "review", "laptop", "smartphone",
		"gadget", "programming", "coding", "software", "computer", "linux",
		"artificial intelligence",
	}},
	{Name: "education", Keywords: []string{
		"tutorial", "lesson", "course", "learn", "explained", "lecture", "how to",
		"history", "math", "university", "study", "guide",
	}},
	{Name: "entertainment", Keywords: []string{
		"movie", "trailer", "comedy", "funny", "prank", "reaction", "vlog",
		"challenge", "celebrity", "sketch", "netflix", "film",
	}},
	{Name: "news", Keywords: []string{
		"news", "breaking", "politics", "election", "report", "interview", "debate",
		"headlines", "government", "president", "journalism",
	}},
	{Name: "sports", Keywords: []string{
		"football", "soccer", "basketball", "nba", "nfl", "tennis", "cricket",
		"highlights", "goal", "workout", "fitness", "boxing", "ufc", "formula 1",
	}},
	{Name: "food", Keywords: []string{
		"recipe", "cooking", "food", "kitchen", "chef", "baking", "restaurant",
		"mukbang", "meal", "street food", "dessert", "taste test",
	}},
	{Name: "beauty", Keywords: []string{
		"makeup", "beauty", "skincare", "hairstyle", "nails", "fashion", "outfit",
		"haul", "cosmetics", "grwm", "lipstick",
	}},
	{Name: "science", Keywords: []string{
		"science", "physics", "chemistry", "biology", "space", "nasa", "experiment",
		"astronomy", "universe", "quantum", "research", "nature",
	}},
	{Name: "art", Keywords: []string{
		"art", "drawing", "painting", "sketchbook", "illustration", "design",
		"animation", "sculpture", "craft", "diy", "digital art", "artist",
	}},
	{Name: "automotive", Keywords: []string{
		"car", "supercar", "engine", "drift", "motorcycle", "tesla", "bmw",
		"porsche", "racing", "automotive", "test drive", "horsepower",
	}},
	{Name: "finance", Keywords: []string{
		"finance", "stock", "crypto", "bitcoin", "investing", "money", "trading",
		"economy", "budget", "wealth", "real estate", "passive income",
	}},
	{Name: "travel", Keywords: []string{
		"travel", "trip", "tour", "vacation", "hotel", "flight", "backpacking",
		"adventure", "island", "beach", "explore", "itinerary",
	}},
	{Name: "pets", Keywords: []string{
		"dog", "cat", "puppy", "kitten", "pet", "animals", "parrot", "hamster",
		"aquarium", "rescue", "veterinarian", "cute animals",
	}},
	{Name: "asmr", Keywords: []string{
		"asmr", "tingles", "whisper", "relaxing", "sleep", "ambient", "rain sounds",
		"soothing", "triggers", "tapping", "white noise",
	}},
	{Name: "podcasts", Keywords: []string{
		"podcast", "episode", "talk show", "conversation", "discussion", "guest",
		"q&a", "ama", "panel", "roundtable",
	}},
}

// Content format names.
const (
	FormatShort       = "short"
	FormatLongForm    = "long_form"
	FormatSeries      = "series"
	FormatLive        = "live"
	FormatCompilation = "compilation"
	FormatStandard    = "standard"
)

// Duration thresholds for format detection, in seconds.
const (
	shortMaxSeconds    = 120
	longFormMinSeconds = 1800
)

// formats is the format-keyword dictionary; the first matching entry wins.
var formats = []Genre{
	{Name: FormatShort, Keywords: []string{"#shorts", "#short", "shorts", "tiktok", "reels"}},
	{Name: FormatLongForm, Keywords: []string{
		"full documentary", "documentary", "full movie", "full episode", "full album",
		"hours", "marathon",
	}},
	{Name: FormatSeries, Keywords: []string{"episode", "ep.", "season", "series", "chapter", "part "}},
	{Name: FormatLive, Keywords: []string{"livestream", "live", "stream", "premiere"}},
	{Name: FormatCompilation, Keywords: []string{"compilation", "best of", "moments", "top 10", "mix"}},
}

// stopWords are tokens never treated as topics or keywords.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
		"had", "her", "was", "one", "our", "out", "has", "have", "him", "his",
		"how", "its", "may", "new", "now", "old", "see", "two", "way", "who",
		"did", "get", "got", "let", "put", "say", "she", "too", "use", "this",
		"that", "with", "from", "they", "will", "what", "when", "your", "just",
		"like", "than", "them", "then", "into", "only", "some", "more", "most",
		"very", "over", "also", "been", "here", "there", "where", "which", "about",
		"after", "before", "their", "these", "those", "would", "could", "should",
		"video", "official", "watch",
	} {
		stopWords[w] = struct{}{}
	}
}
