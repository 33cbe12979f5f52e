// Package table loads delimited datasets into core.Table values and prepares them for
// semantic matching.
//
// Loading infers a kind for every column (textual, integer, float or date). Preparation
// narrows the table to a selected set of columns and appends a stringified twin for
// every non-textual column, so that every column can be embedded as text:
//
//	tbl, err := table.Load("data/shipment_dataset.csv", table.DefaultOptions())
//	tbl, err = table.Filter(tbl, []string{"Carrier_name", "Delivery_distance"})
//	tbl, err = table.AddStringTwins(tbl)
//
// The twin of Delivery_distance is named s_Delivery_distance and holds values such as
// "delivery distance 120".
package table
