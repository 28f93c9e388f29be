package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// maxQueryRows caps how many rows a tool query returns to the model.
const maxQueryRows = 50

// ListTables returns the names of the user tables in the database.
func ListTables(db *gorm.DB) ([]string, error) {
	var names []string
	err := db.Raw(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
	).Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("db: list tables: %w", err)
	}
	return names, nil
}

// TableSchema returns the CREATE TABLE statements for the named tables.
// Unknown table names are reported rather than silently skipped, since the
// caller is usually a model that guessed wrong.
func TableSchema(db *gorm.DB, tables []string) (string, error) {
	var parts []string
	for _, table := range tables {
		var ddl string
		err := db.Raw(
			`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&ddl).Error
		if err != nil {
			return "", fmt.Errorf("db: schema for %s: %w", table, err)
		}
		if ddl == "" {
			parts = append(parts, fmt.Sprintf("-- table %q does not exist", table))
			continue
		}
		parts = append(parts, ddl+";")
	}
	return strings.Join(parts, "\n\n"), nil
}

// RunReadOnly executes a SELECT statement and renders the result as a
// pipe-delimited table, truncated to maxQueryRows rows. Anything that is not
// a single SELECT (or WITH ... SELECT) is rejected.
func RunReadOnly(db *gorm.DB, query string) (string, error) {
	if err := checkReadOnly(query); err != nil {
		return "", err
	}

	rows, err := db.Raw(query).Rows()
	if err != nil {
		return "", fmt.Errorf("db: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("db: columns: %w", err)
	}

	var b strings.Builder
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString("\n")

	count := 0
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if count >= maxQueryRows {
			fmt.Fprintf(&b, "... (truncated at %d rows)\n", maxQueryRows)
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("db: scan row: %w", err)
		}
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = renderValue(v)
		}
		b.WriteString(strings.Join(fields, " | "))
		b.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("db: iterate rows: %w", err)
	}

	if count == 0 {
		b.WriteString("(no rows)\n")
	}
	return b.String(), nil
}

// checkReadOnly rejects statements that could mutate the dataset. The agent
// only ever needs SELECT; everything else is a prompt-injection hazard.
func checkReadOnly(query string) error {
	trimmed := strings.TrimSpace(strings.ToLower(query))
	if !strings.HasPrefix(trimmed, "select") && !strings.HasPrefix(trimmed, "with") {
		return fmt.Errorf("db: only SELECT queries are allowed")
	}
	for _, kw := range []string{"insert ", "update ", "delete ", "drop ", "alter ", "create ", "attach ", "pragma "} {
		if strings.Contains(trimmed, kw) {
			return fmt.Errorf("db: statement contains forbidden keyword %q", strings.TrimSpace(kw))
		}
	}
	if strings.Contains(trimmed, ";") && strings.Index(trimmed, ";") != len(trimmed)-1 {
		return fmt.Errorf("db: multiple statements are not allowed")
	}
	return nil
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
