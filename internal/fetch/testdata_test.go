package fetch

import (
	"fmt"
	"strings"
)

const searchFormPage = `<html><body>
<form method="post" action="./searchsdw.aspx" id="form1">
<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="vs123" />
<input type="hidden" name="__VIEWSTATEGENERATOR" id="__VIEWSTATEGENERATOR" value="3B6ED3D5" />
<input type="hidden" name="__EVENTVALIDATION" id="__EVENTVALIDATION" value="ev456" />
<input type="text" name="txtShareholdingDate" id="txtShareholdingDate" value="2022/05/08" />
<input type="text" name="txtStockCode" id="txtStockCode" value="" />
</form>
</body></html>`

type participant struct {
	id, name, address, shares, pct string
}

// resultPage renders a search result page in the registry's layout.
func resultPage(ps ...participant) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="pnlResultNormal"><div class="search-details-table-container">
<table class="table table-scroll table-sort table-mobile-list">
<thead><tr>
<th data-column-class="col-participant-id">Participant ID</th>
<th data-column-class="col-participant-name">Name of CCASS Participant<br />(* for Consenting Investor Participants )</th>
<th data-column-class="col-address">Address</th>
<th data-column-class="col-shareholding">Shareholding</th>
<th data-column-class="col-shareholding-percent">% of the total number of Issued Shares/ Warrants/ Units</th>
</tr></thead><tbody>`)
	for _, p := range ps {
		fmt.Fprintf(&b, `<tr>
<td class="col-participant-id"><div class="mobile-list-heading">Participant ID:</div><div class="mobile-list-body">%s</div></td>
<td class="col-participant-name"><div class="mobile-list-heading">Name of CCASS Participant (* for Consenting Investor Participants ):</div><div class="mobile-list-body">%s</div></td>
<td class="col-address"><div class="mobile-list-heading">Address:</div><div class="mobile-list-body">%s</div></td>
<td class="col-shareholding text-right"><div class="mobile-list-heading">Shareholding:</div><div class="mobile-list-body">%s</div></td>
<td class="col-shareholding-percent text-right"><div class="mobile-list-heading">%% of the total number of Issued Shares/ Warrants/ Units:</div><div class="mobile-list-body">%s</div></td>
</tr>`, p.id, p.name, p.address, p.shares, p.pct)
	}
	b.WriteString(`</tbody></table></div></div></body></html>`)
	return b.String()
}

const stockListPage = `<html><body><table class="table">
<thead><tr><th>Stock Code</th><th>Name</th></tr></thead>
<tbody>
<tr><td>00001</td><td><a href="#">CKH HOLDINGS</a></td></tr>
<tr><td>00005</td><td><a href="#">HSBC HOLDINGS</a></td></tr>
<tr><td></td><td></td></tr>
</tbody></table></body></html>`

var (
	hsbc = participant{"C00019", "THE HONGKONG AND SHANGHAI BANKING", "HSBC WEALTH BUSINESS SERVICES<br>8/F TOWER 2", "1,234,567,890", "32.21%"}
	citi = participant{"C00010", "CITIBANK N.A.", "9/F CITI TOWER", "456,789,012", "11.92%"}
	jpm  = participant{"C00039", "JPMORGAN CHASE BANK", "48/F ONE ISLAND EAST", "123,456,789", "3.22%"}
)
