// Package dataset reads sample matrices from CSV and writes PCA results back
// out as plain CSV tables.
//
// The input layout is one row per sample: an identifier column followed by
// numeric feature columns, with a header row naming the features.
//
//	table, err := dataset.LoadCSV("wine.csv", dataset.DefaultReadOptions())
//	pca := decomposition.NewPCA(decomposition.WithNComponents(4))
//	scores, err := pca.FitTransform(table.Data)
//	err = dataset.WriteScores(f, scores, table.RowLabels, table.IDColumn)
package dataset
