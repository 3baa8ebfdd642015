package http

import (
	"html/template"
	"net/http"

	"github.com/papan-connect/Heart-Disease-Prediction/ml"
	"go.uber.org/zap"
)

// indexTemplate 预测表单页面
var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	Features     []string
	Descriptions map[string]string
}

func (a *API) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := indexData{
		Features:     ml.FeatureNames(),
		Descriptions: ml.FeatureDescriptions(),
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		a.logger.Warn("failed to render index page", zap.Error(err))
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Heart Disease Prediction</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f4f6f8; color: #222; }
  .container { max-width: 720px; margin: 0 auto; padding: 24px; }
  h1 { font-size: 1.6em; }
  form { background: #fff; border-radius: 8px; padding: 24px; box-shadow: 0 1px 3px rgba(0,0,0,.12); }
  .field { margin-bottom: 14px; }
  label { display: block; font-size: .9em; margin-bottom: 4px; }
  input { width: 100%; padding: 8px; border: 1px solid #ccd; border-radius: 4px; box-sizing: border-box; }
  button { margin-top: 10px; padding: 10px 24px; border: 0; border-radius: 4px; background: #c0392b; color: #fff; font-size: 1em; cursor: pointer; }
  button:hover { background: #a93226; }
  #result { margin-top: 20px; padding: 16px; border-radius: 8px; display: none; }
  #result.high { background: #fdecea; border: 1px solid #e74c3c; }
  #result.low { background: #eafaf1; border: 1px solid #27ae60; }
  #result.err { background: #fef9e7; border: 1px solid #f1c40f; }
</style>
</head>
<body>
<div class="container">
  <h1>Heart Disease Prediction</h1>
  <form id="predict-form">
    {{range .Features}}
    <div class="field">
      <label for="{{.}}">{{index $.Descriptions .}}</label>
      <input type="number" step="any" id="{{.}}" name="{{.}}" required>
    </div>
    {{end}}
    <button type="submit">Predict</button>
  </form>
  <div id="result"></div>
</div>
<script>
  var form = document.getElementById('predict-form');
  var result = document.getElementById('result');

  form.addEventListener('submit', function (e) {
    e.preventDefault();

    fetch('/predict', {
      method: 'POST',
      headers: { 'Content-Type': 'application/x-www-form-urlencoded' },
      body: new URLSearchParams(new FormData(form))
    })
      .then(function (resp) { return resp.json(); })
      .then(function (data) {
        result.style.display = 'block';
        if (!data.success) {
          result.className = 'err';
          result.textContent = data.error;
          return;
        }
        result.className = data.prediction === 1 ? 'high' : 'low';
        result.textContent = 'Risk level: ' + data.risk_level +
          ' (disease probability ' + (data.probability_disease * 100).toFixed(1) + '%)';
      })
      .catch(function () {
        result.style.display = 'block';
        result.className = 'err';
        result.textContent = 'Request failed. Please try again.';
      });
  });
</script>
</body>
</html>
`
