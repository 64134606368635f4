// Package document reconstructs form fields and tables from the flat block
// graph produced by document analysis (one response per page).
//
// A page is a list of blocks linked by id. Words hang under lines, keys and
// values are KEY_VALUE_SET blocks linked by VALUE edges, and tables own CELL
// children that in turn own words. The resolver only ever follows one level
// of CHILD edges when collecting text.
//
//	page, err := document.LoadPage("page_1.json")
//	if err != nil {
//	    return err
//	}
//	res, err := document.Resolve(page)
//	if err != nil {
//	    // malformed page: duplicate or missing ids
//	}
//	total := res.KeyValues["TOTALE DOCUMENTO"]
//	for _, t := range document.NormalizeTables(res.Tables) {
//	    for _, row := range t {
//	        desc, _ := row.Get("DESCRIZIONE")
//	        _ = desc
//	    }
//	}
//
// References to blocks that are not on the page are skipped and reported
// through Result.Warnings.
package document
