package web

const baseCSS = `
:root { --hue: 240; --accent: hsl(var(--hue), 70%, 55%); --muted: #667; --bg: #fbfbfd; --fg: #1d1d24; }
* { box-sizing: border-box; }
body { margin: 0; font: 16px/1.5 system-ui, sans-serif; background: var(--bg); color: var(--fg); }
header { position: sticky; top: 0; background: var(--bg); border-bottom: 1px solid #dde; padding: .75rem 1.5rem; }
header h1 { margin: 0; font-size: 1.25rem; color: var(--accent); }
main { max-width: 60rem; margin: 0 auto; padding: 1rem 1.5rem 4rem; }
.bar { height: .5rem; background: #e4e4ee; border-radius: .25rem; overflow: hidden; }
.bar > span { display: block; height: 100%; background: var(--accent); }
.muted { color: var(--muted); }
.chapter { margin: 2rem 0; }
.chapter h2 { color: var(--accent); margin-bottom: .25rem; }
.section h3 { margin: 1rem 0 .5rem; font-size: 1rem; }
.item { display: flex; gap: .5rem; align-items: flex-start; padding: .25rem 0; }
.item form { margin: 0; }
.check { width: 1.5rem; height: 1.5rem; border: 2px solid var(--accent); background: none; border-radius: .25rem; cursor: pointer; }
.check.on { background: var(--accent); color: #fff; }
.item.done .text { color: var(--muted); text-decoration: line-through; }
details { margin: .25rem 0 .5rem 2rem; }
.toolbar { display: flex; gap: .75rem; align-items: center; margin-top: .5rem; }
.toolbar input[type=search] { flex: 1; padding: .35rem .5rem; }
`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>{{.CSS}}</style>
  <script id="MathJax-script" async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"></script>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <div>Overall {{.Overall.Percent}}% <span class="muted">{{.Overall.Completed}} of {{.Overall.Total}} complete</span></div>
  <div class="bar"><span style="width: {{.Overall.Percent}}%"></span></div>
  <form class="toolbar" method="get" action="/">
    <input type="search" name="q" value="{{.Query}}" placeholder="Search items">
    <button type="submit">Search</button>
    {{if .Query}}<a href="/">Clear</a> <span class="muted">{{.Matches}} matching</span>{{end}}
    <a href="/export">Export progress</a>
    <a href="/reset">Reset progress</a>
  </form>
</header>
<main>
{{if .Empty}}
  <p class="muted">No items match "{{.Query}}".</p>
{{end}}
{{range .Chapters}}
  <section class="chapter" id="{{.Slug}}">
    <h2>{{.Title}}{{if .Progress.Done}} ✓{{end}}</h2>
    {{if .Summary}}<div class="muted">{{.Summary}}</div>{{end}}
    <div class="bar"><span style="width: {{.Progress.Percent}}%"></span></div>
    <div class="muted">{{.Progress.Percent}}% · {{.Progress.Completed}} of {{.Progress.Total}} complete</div>
    {{range .Sections}}
    <div class="section">
      <h3>{{.Title}}</h3>
      {{range .Items}}
      <div class="item{{if .Checked}} done{{end}}" id="{{.Anchor}}">
        <form method="post" action="/items/toggle">
          <input type="hidden" name="key" value="{{.Key}}">
          <input type="hidden" name="checked" value="{{if .Checked}}false{{else}}true{{end}}">
          <input type="hidden" name="q" value="{{$.Query}}">
          <button type="submit" class="check{{if .Checked}} on{{end}}" aria-label="{{if .Checked}}Uncheck{{else}}Check{{end}}">{{if .Checked}}✓{{end}}</button>
        </form>
        <div>
          <span class="text">{{if .Label}}<strong>{{.Label}}</strong>{{if .Body}}: {{end}}{{end}}{{.Body}}</span>
          {{if .Derivation}}
          <details>
            <summary>{{if .DerivationSummary}}{{.DerivationSummary}}{{else}}Derivation{{end}}</summary>
            {{range .Derivation}}
              {{if eq .Kind "heading"}}<h4>{{.Text}}</h4>
              {{else if eq .Kind "equation"}}<div>{{.Text}}</div>
              {{else if eq .Kind "list"}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
              {{else}}<p>{{.Text}}</p>{{end}}
            {{end}}
          </details>
          {{end}}
        </div>
      </div>
      {{end}}
    </div>
    {{end}}
  </section>
{{end}}
</main>
</body>
</html>`

const resetTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Reset progress · {{.Title}}</title>
  <style>{{.CSS}}</style>
</head>
<body>
<main>
  <h1>Reset progress?</h1>
  <p>This unchecks all {{.Overall.Total}} items ({{.Overall.Completed}} currently complete) and clears saved progress. It cannot be undone.</p>
  <form method="post" action="/reset">
    <input type="hidden" name="confirm" value="yes">
    <button type="submit">Reset</button>
    <a href="/">Cancel</a>
  </form>
</main>
</body>
</html>`
