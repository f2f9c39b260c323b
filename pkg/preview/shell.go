package preview

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ShellData is what the live-reload shell shows.
type ShellData struct {
	Title      string
	DocumentID string
	Target     string
	Version    int
	// HTML is the rendered document, shown inside a sandboxed iframe.
	HTML string
}

const shellStyle = `body{margin:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#e5e7eb}` +
	`.bp-bar{display:flex;gap:12px;align-items:center;padding:8px 16px;background:#111827;color:#f9fafb;font-size:13px}` +
	`.bp-bar .bp-status{margin-left:auto;opacity:.7}` +
	`.bp-frame{display:block;border:0;width:100%;height:calc(100vh - 34px);background:#fff}`

// Shell wraps a rendered document in a page that swaps in fresh renders
// pushed over /ws.
func Shell(d ShellData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := d.Title
		if title == "" {
			title = d.DocumentID
		}
		if _, err := io.WriteString(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>"+
			templ.EscapeString(title)+" · preview</title><style>"+shellStyle+"</style></head><body>"); err != nil {
			return err
		}
		if err := toolbar(d, title).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<iframe id="bp-frame" class="bp-frame" sandbox="allow-scripts allow-same-origin" srcdoc="`+
			templ.EscapeString(d.HTML)+`"></iframe>`); err != nil {
			return err
		}
		if err := reloadScript(d.DocumentID).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func toolbar(d ShellData, title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="bp-bar"><strong>%s</strong><span>%s</span><span id="bp-version">v%d</span><span id="bp-status" class="bp-status">connecting</span></div>`,
			templ.EscapeString(title), templ.EscapeString(d.Target), d.Version)
		return err
	})
}

func reloadScript(docID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id, err := templ.JSONString(docID)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, `<script>(function(){
var doc=`+id+`,status=document.getElementById("bp-status");
function connect(){
var proto=location.protocol==="https:"?"wss://":"ws://";
var ws=new WebSocket(proto+location.host+"/ws?doc="+encodeURIComponent(doc));
ws.onopen=function(){status.textContent="live"};
ws.onclose=function(){status.textContent="reconnecting";setTimeout(connect,1000)};
ws.onmessage=function(m){
var ev=JSON.parse(m.data);
if(ev.kind==="rendered"&&ev.documentId===doc){
document.getElementById("bp-frame").srcdoc=ev.html;
document.getElementById("bp-version").textContent="v"+ev.version;
}else if(ev.kind==="deleted"&&ev.documentId===doc){status.textContent="deleted"}
else if(ev.kind==="reload"){location.reload()}
};
}
connect();
})();</script>`)
		return err
	})
}
