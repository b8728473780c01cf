package web

import "html/template"

func newTemplates() *template.Template {
	return template.Must(template.New("page").Parse(pageTemplate))
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>immaculater: {{.Cwd}}</title>
  <style>
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: #fcfaf6;
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
    }
    header h1 {
      margin: 0;
      font-size: 20px;
    }
    main {
      padding: 16px 24px;
    }
    pre {
      font-family: "Iosevka", "Menlo", monospace;
      font-size: 14px;
      background: #fff;
      border: 1px solid #e4dccd;
      padding: 12px;
      overflow-x: auto;
    }
    input[name=line] {
      width: 70%;
      font-family: "Iosevka", "Menlo", monospace;
      font-size: 14px;
      padding: 6px 8px;
    }
    .error {
      color: #9c2f1c;
    }
  </style>
</head>
<body>
  <header>
    <h1>immaculater:<span class="cwd">{{.Cwd}}</span></h1>
  </header>
  <main>
    <form method="post" action="/exec">
      <input name="line" autofocus autocomplete="off" placeholder="help">
      <button type="submit">Run</button>
    </form>
    {{with .Last}}
    <section class="last">
      <h2>{{.Line}}</h2>
      {{if .Err}}<p class="error">{{.Err}}</p>{{end}}
      {{if .Output}}<pre class="output">{{.Output}}</pre>{{end}}
    </section>
    {{end}}
    <section>
      <h2>ls</h2>
      <pre class="listing">{{.Listing}}</pre>
    </section>
  </main>
</body>
</html>
`
