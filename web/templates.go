package web

import "html/template"

var listTemplate = template.Must(template.New("list").Parse(`<!DOCTYPE html>
<html data-theme="{{.Theme}}">
<head><meta charset="utf-8"><title>whynot</title></head>
<body>
<form action="/search" method="get">
<input type="text" name="q" value="{{.Query}}">
<button type="submit">Search</button>
</form>
<ul id="results">
{{range .Items}}<li><a href="/thread/{{.ThreadID}}">{{.Subject}}</a> — {{.Authors}} ({{.DateRelative}})</li>
{{end}}</ul>
{{if .HasMore}}<a href="/api/load-more?q={{.Query}}&offset={{.NextOffset}}">Load more</a>{{end}}
</body>
</html>
`))

var resultsFragmentTemplate = template.Must(template.New("results_fragment").Parse(`
{{range .Items}}<li><a href="/thread/{{.ThreadID}}">{{.Subject}}</a> — {{.Authors}} ({{.DateRelative}})</li>
{{end}}`))

var threadTemplate = template.Must(template.New("thread").Parse(`<!DOCTYPE html>
<html data-theme="{{.Theme}}">
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body>
<h1>{{.Subject}}</h1>
<div class="actions">
<a href="/thread/{{.ThreadID}}/reply">Reply</a>
<a href="/thread/{{.ThreadID}}/forward">Forward</a>
</div>
{{range $i, $m := .Messages}}
<div class="message">
<p>{{$m.Headers.From}} — {{$m.DateRelative}}</p>
<iframe sandbox="allow-same-origin allow-popups allow-popups-to-escape-sandbox"
  src="/email-frame/{{$.ThreadID}}/{{$i}}?theme={{$.Theme}}&show_images={{$.ShowImages}}"></iframe>
</div>
{{end}}
</body>
</html>
`))

var composeTemplate = template.Must(template.New("compose").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Compose</title></head>
<body>
<form method="post">
<input type="hidden" name="in_reply_to" value="{{.InReplyTo}}">
<input type="hidden" name="references" value="{{.References}}">
<label>To <input type="text" name="to" value="{{.To}}"></label>
<label>Cc <input type="text" name="cc" value="{{.Cc}}"></label>
<label>Bcc <input type="text" name="bcc" value="{{.Bcc}}"></label>
<label>Subject <input type="text" name="subject" value="{{.Subject}}"></label>
<textarea name="body">{{.Body}}</textarea>
<button type="submit">Send</button>
</form>
{{if .Status}}<p class="status">{{.Status}}</p>{{end}}
</body>
</html>
`))

var redirectWarningTemplate = template.Must(template.New("redirect_warning").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Leaving whynot</title></head>
<body>
<p>You are about to visit <strong>{{.Domain}}</strong>:</p>
<p><code>{{.URL}}</code></p>
{{if .Suspicious}}<p class="warning">This link contains a suspicious pattern. Proceed with caution.</p>{{end}}
<form action="{{.URL}}" method="get"><button type="submit">Continue</button></form>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Error</title></head>
<body>
<h1>Something went wrong</h1>
<p>{{.Message}}</p>
</body>
</html>
`))
