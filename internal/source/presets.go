package source

// Preset is a named, well-known news feed reachable by a short slug.
type Preset struct {
	Name string
	URL  string
}

// PresetNewsFeeds maps slugs accepted as "news" identifiers to feeds.
var PresetNewsFeeds = map[string]Preset{
	"bbc":        {Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml"},
	"cnn":        {Name: "CNN", URL: "http://rss.cnn.com/rss/edition.rss"},
	"nytimes":    {Name: "The New York Times", URL: "https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml"},
	"guardian":   {Name: "The Guardian", URL: "https://www.theguardian.com/world/rss"},
	"techcrunch": {Name: "TechCrunch", URL: "https://techcrunch.com/feed/"},
	"verge":      {Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml"},
	"ars":        {Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index"},
	"wired":      {Name: "Wired", URL: "https://www.wired.com/feed/rss"},
}
