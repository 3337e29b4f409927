// Package domain contains the core business entities and rules for the
// mydata document store: documents, vector records, search results,
// summaries and the domain error taxonomy.
package domain
