// Package frame provides a small typed, column-oriented table read from CSV.
//
// Columns are one of three kinds: free text (KindString), factor-like
// categories stored as levels plus integer codes (KindCategory), and numbers
// stored as float64 with NaN for missing cells (KindNumeric). A Schema maps
// normalized column names to kinds; columns not listed are read as text.
//
//	schema := frame.Schema{
//	    "borough":            frame.KindCategory,
//	    "number_of_offences": frame.KindNumeric,
//	}
//	f, err := frame.ReadCSV(r, schema)
package frame
