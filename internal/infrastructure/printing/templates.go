package printing

// Built-in document template names
const (
	TemplateLeaveApplication = "leave_application"
	TemplateInvoice          = "invoice"
)

const leaveApplicationTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a2e; font-size: 13px; }
  .header { border-bottom: 2px solid #1a1a2e; padding-bottom: 12px; margin-bottom: 24px; }
  .header h1 { margin: 0; font-size: 20px; }
  .header .org { color: #555; margin-top: 4px; }
  table.fields { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
  table.fields td { padding: 8px 10px; border: 1px solid #d8d8e0; vertical-align: top; }
  table.fields td.label { width: 32%; background: #f4f4f8; font-weight: bold; }
  .status { display: inline-block; padding: 2px 10px; border-radius: 3px; background: #eef; text-transform: uppercase; font-size: 11px; letter-spacing: 1px; }
  .reason { white-space: normal; }
  .signatures { margin-top: 48px; width: 100%; }
  .signatures td { width: 50%; padding-top: 36px; border-top: 1px solid #999; text-align: center; color: #555; }
  .meta { margin-top: 32px; color: #888; font-size: 11px; }
</style>
</head>
<body>
  <div class="header">
    <h1>Leave Application</h1>
    <div class="org">{{.OrganizationName}}</div>
  </div>

  <table class="fields">
    <tr><td class="label">Employee</td><td>{{.EmployeeName}}{{if .EmployeeCode}} ({{.EmployeeCode}}){{end}}</td></tr>
    {{if .Designation}}<tr><td class="label">Designation</td><td>{{.Designation}}</td></tr>{{end}}
    <tr><td class="label">Leave type</td><td>{{upper .LeaveType}}</td></tr>
    <tr><td class="label">Period</td><td>{{formatDate .StartDate}} &mdash; {{formatDate .EndDate}} ({{formatDays .WorkingDays}} working days)</td></tr>
    <tr><td class="label">Status</td><td><span class="status">{{.Status}}</span></td></tr>
    <tr><td class="label">Reason</td><td class="reason">{{nl2br .Reason}}</td></tr>
    {{if .DecisionNote}}<tr><td class="label">Decision note</td><td class="reason">{{nl2br .DecisionNote}}</td></tr>{{end}}
    {{if .ReviewerName}}<tr><td class="label">Reviewed by</td><td>{{.ReviewerName}}</td></tr>{{end}}
  </table>

  <table class="signatures">
    <tr>
      <td>Employee signature</td>
      <td>Approver signature</td>
    </tr>
  </table>

  <div class="meta">Generated {{formatDateTime .GeneratedAt}} &middot; Reference {{.Reference}}</div>
</body>
</html>`

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a2e; font-size: 13px; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #1a1a2e; padding-bottom: 12px; margin-bottom: 24px; }
  .header h1 { margin: 0; font-size: 22px; }
  .header .period { font-size: 15px; color: #555; }
  table.lines { width: 100%; border-collapse: collapse; }
  table.lines th { text-align: left; background: #1a1a2e; color: #fff; padding: 8px 10px; font-size: 12px; }
  table.lines td { padding: 8px 10px; border-bottom: 1px solid #e2e2ea; }
  table.lines td.num, table.lines th.num { text-align: right; }
  .total-row td { font-weight: bold; border-top: 2px solid #1a1a2e; border-bottom: none; }
  .notes { margin-top: 24px; color: #555; }
  .meta { margin-top: 32px; color: #888; font-size: 11px; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h1>Invoice</h1>
      <div>{{.EmployeeName}}{{if .EmployeeCode}} &middot; {{.EmployeeCode}}{{end}}</div>
    </div>
    <div class="period">{{.Period}}</div>
  </div>

  <table class="lines">
    <thead>
      <tr>
        <th>Description</th>
        <th class="num">Qty</th>
        <th class="num">Unit price</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{formatMoney .UnitPrice $.Currency}}</td>
        <td class="num">{{formatMoney .Amount $.Currency}}</td>
      </tr>
      {{end}}
      <tr class="total-row">
        <td colspan="3">Total</td>
        <td class="num">{{formatMoney .Total .Currency}}</td>
      </tr>
    </tbody>
  </table>

  {{if .Notes}}<div class="notes">{{nl2br .Notes}}</div>{{end}}

  <div class="meta">Status {{.Status}} &middot; Generated {{formatDateTime .GeneratedAt}}</div>
</body>
</html>`
