package render

// BlockedImageSVG is the inline placeholder served by the image proxy when
// images are blocked (spec.md §4.G, §8 scenario S5).
const BlockedImageSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="150" viewBox="0 0 200 150">` +
	`<rect width="200" height="150" fill="#e1e4e8"/>` +
	`<text x="100" y="80" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#6a737d">Image blocked</text>` +
	`</svg>`
