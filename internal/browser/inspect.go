package browser

import (
	"fmt"
	"strings"
)

// Inspect extracts the interactive structure of the current page.
func (s *Session) Inspect() (*PageMap, error) {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page did not load: %w", err)
	}

	info, err := p.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read page info: %w", err)
	}

	res, err := p.Eval(inspectJS)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect page: %w", err)
	}
	v := res.Value

	pm := &PageMap{
		URL:   info.URL,
		Title: info.Title,
		Flash: strings.TrimSpace(v.Get("flash").String()),
	}
	for _, h := range v.Get("headings").Arr() {
		if text := strings.TrimSpace(h.String()); text != "" {
			pm.Headings = append(pm.Headings, text)
		}
	}
	for _, c := range v.Get("controls").Arr() {
		pm.Elements = append(pm.Elements, Control{
			By:          By(c.Get("by").String()),
			Selector:    c.Get("selector").String(),
			Kind:        c.Get("kind").String(),
			Text:        c.Get("text").String(),
			Placeholder: c.Get("placeholder").String(),
			Name:        c.Get("name").String(),
		})
	}
	for _, n := range v.Get("navigation").Arr() {
		pm.Navigation = append(pm.Navigation, NavItem{
			Text: n.Get("text").String(),
			Href: n.Get("href").String(),
		})
	}
	return pm, nil
}

// inspectJS prefers id locators, then link text for anchors, then CSS.
const inspectJS = `() => {
	const controls = [];
	const seen = new Set();
	const visible = el => !!(el.offsetParent || el.getClientRects().length);
	const clip = (s, n) => (s || '').trim().replace(/\s+/g, ' ').slice(0, n);

	function locate(el) {
		if (el.id && /^[A-Za-z][\w-]*$/.test(el.id)) return { by: 'id', selector: el.id };
		if (el.tagName === 'A' && clip(el.textContent, 80)) return { by: 'link_text', selector: clip(el.textContent, 80) };
		const tag = el.tagName.toLowerCase();
		if (el.name) return { by: 'css', selector: tag + '[name="' + el.name + '"]' };
		if (el.type && tag !== 'a') {
			const sel = tag + '[type="' + el.type + '"]';
			if (document.querySelectorAll(sel).length === 1) return { by: 'css', selector: sel };
		}
		if (tag === 'a' && el.getAttribute('href')) return { by: 'css', selector: 'a[href="' + el.getAttribute('href') + '"]' };
		return { by: 'tag', selector: tag };
	}

	function add(el, kind, extra) {
		if (!visible(el)) return;
		const loc = locate(el);
		const key = loc.by + ':' + loc.selector;
		if (seen.has(key)) return;
		seen.add(key);
		controls.push(Object.assign({ by: loc.by, selector: loc.selector, kind: kind, name: el.name || '' }, extra || {}));
	}

	document.querySelectorAll('button, input[type="submit"], input[type="button"], [role="button"]').forEach(el =>
		add(el, 'button', { text: clip(el.textContent || el.value, 50) }));
	document.querySelectorAll('input:not([type="hidden"]):not([type="submit"]):not([type="button"]), textarea').forEach(el =>
		add(el, el.type === 'checkbox' || el.type === 'radio' || el.type === 'file' ? el.type : (el.type || 'text'), { placeholder: el.placeholder || '' }));
	document.querySelectorAll('select').forEach(el => add(el, 'select'));
	document.querySelectorAll('a[href]').forEach(el => {
		const href = el.getAttribute('href');
		if (href.startsWith('#') || href.startsWith('javascript:')) return;
		add(el, 'link', { text: clip(el.textContent, 50) });
	});

	const navigation = [];
	const hrefs = new Set();
	document.querySelectorAll('nav a, header a, [role="navigation"] a').forEach(el => {
		const href = el.getAttribute('href');
		if (!href || href === '#' || hrefs.has(href) || !visible(el)) return;
		hrefs.add(href);
		navigation.push({ text: clip(el.textContent, 30), href: href });
	});

	const headings = Array.from(document.querySelectorAll('h1, h2, h3')).map(h => clip(h.textContent, 80));
	const flash = document.querySelector('.flash');

	return { controls: controls, navigation: navigation, headings: headings, flash: flash ? clip(flash.textContent, 120) : '' };
}`
