// Package match finds, for a free-text query, the table cell whose text is most similar
// to it.
//
// For every searchable column the Matcher embeds each distinct value, scores it against
// the query embedding with cosine similarity and keeps the best value of the column.
// The best column match overall is the query's result; the rows holding that value are
// reported with it.
//
// Value embeddings are recomputed for every query. Within a column they are computed in
// batches on a worker pool and reduced in value order, so ties always go to the value
// that appears first in the table.
package match
