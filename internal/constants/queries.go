package constants

const (
	// DistinctColumnValues takes the quoted column then the quoted table
	DistinctColumnValues = `
	SELECT DISTINCT %[1]s FROM %[2]s WHERE %[1]s IS NOT NULL
	`
)
