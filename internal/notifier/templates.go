package notifier

import "html/template"

// indicatorRow is one line of the day or year results table
type indicatorRow struct {
	Name  string
	Value string
	Goal  string
	Color string
}

// onePageData feeds the per-manager mail template
type onePageData struct {
	Manager        string
	StoreName      string
	Day            string
	DayRows        []indicatorRow
	YearRows       []indicatorRow
	DailyPosition  int
	AnnualPosition int
	StoreCount     int
	Sender         string
}

// summaryRow is one ranking line of the management mail
type summaryRow struct {
	Position int
	Store    string
	Total    string
}

// summaryData feeds the management mail template
type summaryData struct {
	Day        string
	BestDay    string
	WorstDay   string
	BestYear   string
	WorstYear  string
	DailyRows  []summaryRow
	AnnualRows []summaryRow
	Sender     string
}

var onePageTemplate = template.Must(template.New("onepage").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #007BFF;">Good morning, {{.Manager}}</h2>

  <p>The results for <strong>{{.Day}}</strong> at <strong>store {{.StoreName}}</strong> were:</p>

  <table style="border-collapse: collapse; width: 100%;">
    <tr style="background-color: #007BFF; color: #fff;">
      <th style="padding: 8px; border: 1px solid #ddd;">Indicator</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Day Value</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Day Goal</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Scenario</th>
    </tr>
{{- range .DayRows}}
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Name}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">{{.Value}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">{{.Goal}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: center; color: {{.Color}};">&#9679;</td>
    </tr>
{{- end}}
  </table>

  <table style="border-collapse: collapse; width: 100%; margin-top: 16px;">
    <tr style="background-color: #007BFF; color: #fff;">
      <th style="padding: 8px; border: 1px solid #ddd;">Indicator</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Year Value</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Year Goal</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Scenario</th>
    </tr>
{{- range .YearRows}}
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Name}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">{{.Value}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">{{.Goal}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: center; color: {{.Color}};">&#9679;</td>
    </tr>
{{- end}}
  </table>

  <p>Your store ranks <strong>#{{.DailyPosition}}</strong> today and <strong>#{{.AnnualPosition}}</strong> in the year, out of {{.StoreCount}} stores.</p>

  <p>The spreadsheet with all the data is attached.</p>
  <p>Best regards,<br>{{.Sender}}</p>
</body>
</html>
`))

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #007BFF;">Store ranking for {{.Day}}</h2>

  <p>Best store of the day: <strong>{{.BestDay}}</strong><br>
     Worst store of the day: <strong>{{.WorstDay}}</strong></p>
  <p>Best store of the year: <strong>{{.BestYear}}</strong><br>
     Worst store of the year: <strong>{{.WorstYear}}</strong></p>

  <h3>Daily ranking</h3>
  <table style="border-collapse: collapse; width: 100%;">
    <tr style="background-color: #007BFF; color: #fff;">
      <th style="padding: 8px; border: 1px solid #ddd;">#</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Store</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Total</th>
    </tr>
{{- range .DailyRows}}
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: center;">{{.Position}}</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Store}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">{{.Total}}</td>
    </tr>
{{- end}}
  </table>

  <h3>Annual ranking</h3>
  <table style="border-collapse: collapse; width: 100%;">
    <tr style="background-color: #007BFF; color: #fff;">
      <th style="padding: 8px; border: 1px solid #ddd;">#</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Store</th>
      <th style="padding: 8px; border: 1px solid #ddd;">Total</th>
    </tr>
{{- range .AnnualRows}}
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: center;">{{.Position}}</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Store}}</td>
      <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">{{.Total}}</td>
    </tr>
{{- end}}
  </table>

  <p>The ranking spreadsheets are attached.</p>
  <p>Best regards,<br>{{.Sender}}</p>
</body>
</html>
`))
