package blocks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/h2non/filetype"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/style"
)

var directVideo = regexp.MustCompile(`(?i)\.(mp4|webm|ogg|mov|avi|m4v)(?:[?#].*)?$`)

type videoPlatform struct {
	name  string
	re    *regexp.Regexp
	embed string
	thumb string
}

var videoPlatforms = []videoPlatform{
	{
		name:  "youtube",
		re:    regexp.MustCompile(`(?i)(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/|v/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})`),
		embed: "https://www.youtube.com/embed/%s?rel=0",
		thumb: "https://img.youtube.com/vi/%s/hqdefault.jpg",
	},
	{
		name:  "vimeo",
		re:    regexp.MustCompile(`(?i)(?:player\.vimeo\.com/video/|vimeo\.com/(?:video/)?)(\d+)`),
		embed: "https://player.vimeo.com/video/%s",
	},
	{
		name:  "dailymotion",
		re:    regexp.MustCompile(`(?i)(?:dailymotion\.com/(?:embed/)?video/|dai\.ly/)([A-Za-z0-9]+)`),
		embed: "https://www.dailymotion.com/embed/video/%s",
		thumb: "https://www.dailymotion.com/thumbnail/video/%s",
	},
}

// VideoSource is a classified video URL.
type VideoSource struct {
	URL      string
	Platform string // youtube, vimeo, dailymotion or ""
	ID       string
	// Ext is the lower-case file extension of a direct video file.
	Ext string
}

// ParseVideoURL classifies u as a direct file, a known platform or neither.
func ParseVideoURL(u string) VideoSource {
	u = strings.TrimSpace(u)
	src := VideoSource{URL: u}
	if m := directVideo.FindStringSubmatch(u); m != nil {
		src.Ext = strings.ToLower(m[1])
		return src
	}
	for _, p := range videoPlatforms {
		if m := p.re.FindStringSubmatch(u); m != nil {
			src.Platform, src.ID = p.name, m[1]
			return src
		}
	}
	return src
}

// Direct reports whether the URL points to a playable file.
func (v VideoSource) Direct() bool { return v.Ext != "" }

// EmbedURL returns the player URL of a platform video, or "".
func (v VideoSource) EmbedURL(autoplay bool) string {
	for _, p := range videoPlatforms {
		if p.name != v.Platform {
			continue
		}
		u := fmt.Sprintf(p.embed, v.ID)
		if autoplay {
			if strings.Contains(u, "?") {
				u += "&autoplay=1"
			} else {
				u += "?autoplay=1"
			}
		}
		return u
	}
	return ""
}

// ThumbnailURL returns the platform provided poster image, or "".
func (v VideoSource) ThumbnailURL() string {
	for _, p := range videoPlatforms {
		if p.name == v.Platform && p.thumb != "" {
			return fmt.Sprintf(p.thumb, v.ID)
		}
	}
	return ""
}

// MIME returns the content type of a direct video file.
func (v VideoSource) MIME() string {
	switch v.Ext {
	case "":
		return ""
	case "mov":
		return "video/quicktime"
	case "ogg":
		return "video/ogg"
	}
	if t := filetype.GetType(v.Ext); t != filetype.Unknown {
		return t.MIME.Value
	}
	return "video/" + v.Ext
}

type videoShape struct {
	url       string
	thumbnail string
	title     string
	width     string
	align     string
	playColor string
}

func videoFrom(p core.Props) videoShape {
	return videoShape{
		url:       p.String("videoUrl", p.String("url", "")),
		thumbnail: p.String("thumbnailUrl", ""),
		title:     p.String("title", ""),
		width:     p.Size("width", "100%"),
		align:     align(p, "center"),
		playColor: p.String("playColor", "rgba(0, 0, 0, 0.75)"),
	}
}

func (s videoShape) alt() string {
	if s.title != "" {
		return s.title
	}
	return "Play video"
}

// playOverlay is the CSS-only play button drawn over a thumbnail.
func playOverlay(color string) string {
	return `<div class="lb-video-play" style="position: absolute; top: 50%; left: 50%; width: 68px; height: 48px; margin: -24px 0 0 -34px; background-color: ` + attr(color) + `; border-radius: 12px;">` +
		`<div style="width: 0; height: 0; margin: 14px 0 0 27px; border-style: solid; border-width: 10px 0 10px 18px; border-color: transparent transparent transparent #ffffff;"></div>` +
		`</div>`
}

// thumbnailLink renders a linked thumbnail with a play overlay.
func thumbnailLink(s videoShape, thumb string) string {
	var a style.Declarations
	a.Add("display", "block")
	a.Add("position", "relative")
	a.Add("width", s.width)
	a.Add("max-width", "100%")
	a.Add("margin", marginFor(s.align))
	a.Add("text-decoration", "none")

	return `<a href="` + attr(s.url) + `" target="_blank"` + styleAttr(a) + `>` +
		`<img src="` + attr(thumb) + `" alt="` + attr(s.alt()) + `" style="display: block; width: 100%; height: auto; border: 0;">` +
		playOverlay(s.playColor) + `</a>`
}

func videoTag(s videoShape, src VideoSource, poster string) string {
	var d style.Declarations
	d.Add("display", "block")
	d.Add("width", s.width)
	d.Add("max-width", "100%")
	d.Add("height", "auto")
	d.Add("margin", marginFor(s.align))

	out := `<video controls preload="metadata"`
	if poster != "" {
		out += ` poster="` + attr(poster) + `"`
	}
	return out + styleAttr(d) + `><source src="` + attr(src.URL) + `" type="` + src.MIME() + `">` +
		`Your browser does not support the video tag.</video>`
}

func responsiveFrame(s videoShape, embed string) string {
	var outer style.Declarations
	outer.Add("width", s.width)
	outer.Add("max-width", "100%")
	outer.Add("margin", marginFor(s.align))

	return `<div` + styleAttr(outer) + `><div style="position: relative; padding-bottom: 56.25%; height: 0; overflow: hidden;">` +
		`<iframe src="` + attr(embed) + `" title="` + attr(s.alt()) + `" style="position: absolute; top: 0; left: 0; width: 100%; height: 100%; border: 0;" ` +
		`allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; fullscreen" allowfullscreen></iframe></div></div>`
}

// emailVideo never embeds a player in final output: email clients do not
// run them. Preview mode without a thumbnail shows a live player so the
// author can check the URL.
func emailVideo(p core.Props, c *Context) string {
	s := videoFrom(p)
	if s.url == "" {
		return ""
	}
	src := ParseVideoURL(s.url)
	cell := ` align="` + s.align + `" style="padding: 0 0 16px 0;"`

	if c.Options.PreviewMode && s.thumbnail == "" {
		switch {
		case src.Direct():
			return emailRow(cell, videoTag(s, src, ""))
		case src.Platform != "":
			return emailRow(cell, responsiveFrame(s, src.EmbedURL(false)))
		}
	}

	thumb := s.thumbnail
	if thumb == "" {
		thumb = src.ThumbnailURL()
	}
	if thumb == "" {
		thumb = c.Options.PlaceholderFor(s.url)
	}
	if thumb == "" {
		label := "Watch video"
		if s.title != "" {
			label = "Watch video: " + s.title
		}
		return emailRow(cell, `<a href="`+attr(s.url)+`" target="_blank" style="color: #635bff; font-weight: bold; text-decoration: underline;">&#9654; `+text(label)+`</a>`)
	}
	return emailRow(cell, thumbnailLink(s, thumb))
}

const clickToPlayScript = `<script>(function(){var el=document.getElementById(%q);if(!el)return;el.addEventListener("click",function(){var f=document.createElement("iframe");f.src=el.getAttribute("data-embed");f.setAttribute("allow","autoplay; encrypted-media; fullscreen");f.setAttribute("allowfullscreen","");f.style.cssText="position:absolute;top:0;left:0;width:100%%;height:100%%;border:0;";el.innerHTML="";el.appendChild(f);},{once:true});})();</script>`

func webVideo(p core.Props, c *Context) string {
	s := videoFrom(p)
	if s.url == "" {
		return ""
	}
	src := ParseVideoURL(s.url)
	open := `<div class="` + c.classes(p) + `"` + idAttr(p) + ` style="margin: 0 0 16px 0; text-align: ` + s.align + `;">`

	switch {
	case src.Direct():
		return open + videoTag(s, src, s.thumbnail) + `</div>`

	case src.Platform != "" && s.thumbnail != "":
		id := c.Options.ElementID("video")
		var outer style.Declarations
		outer.Add("width", s.width)
		outer.Add("max-width", "100%")
		outer.Add("margin", marginFor(s.align))
		return open + `<div` + styleAttr(outer) + `>` +
			`<div id="` + attr(id) + `" class="lb-video-thumb" data-embed="` + attr(src.EmbedURL(true)) + `" role="button" tabindex="0" aria-label="` + attr(s.alt()) + `" ` +
			`style="position: relative; padding-bottom: 56.25%; height: 0; overflow: hidden; cursor: pointer; background-color: #000000;">` +
			`<img src="` + attr(s.thumbnail) + `" alt="` + attr(s.alt()) + `" style="position: absolute; top: 0; left: 0; width: 100%; height: 100%; object-fit: cover;">` +
			playOverlay(s.playColor) + `</div></div>` +
			fmt.Sprintf(clickToPlayScript, id) + `</div>`

	case src.Platform != "":
		return open + responsiveFrame(s, src.EmbedURL(false)) + `</div>`
	}

	thumb := s.thumbnail
	if thumb == "" {
		thumb = c.Options.PlaceholderFor(s.url)
	}
	if thumb == "" {
		return open + `<a href="` + attr(s.url) + `" target="_blank" rel="noopener">` + text("Watch video") + `</a></div>`
	}
	return open + thumbnailLink(s, thumb) + `</div>`
}
