package browser

// PageMap is a compact description of a page used to draft scenarios
type PageMap struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Elements   []Control `json:"elements"`
	Navigation []NavItem `json:"navigation"`
	Headings   []string  `json:"headings,omitempty"`
	Flash      string    `json:"flash,omitempty"`
}

// Control is an interactive element together with the locator that finds it
type Control struct {
	By          By     `json:"by"`
	Selector    string `json:"selector"`
	Kind        string `json:"kind"` // button, link, select, checkbox, radio, file, or an input type
	Text        string `json:"text,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Name        string `json:"name,omitempty"`
}

// NavItem is a link found in the page's navigation areas
type NavItem struct {
	Text string `json:"text"`
	Href string `json:"href"`
}
