package mibi

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type PanelDefinitionEntry struct {
	Mass   float64 `db:"Mass"`
	Target string  `db:"Target"`
	Start  float64 `db:"Start"`
	Stop   float64 `db:"Stop"`
}

// GetPanelFromDB reads the panel rows whose run range covers the given
// run number.
func GetPanelFromDB(db *sqlx.DB, runNumber int) (Panel, error) {
	query := "SELECT Mass, Target, Start, Stop FROM PanelDefinitions WHERE MinRun <= %d and MaxRun >= %d ORDER BY Mass"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Reading panel definitions from database", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return Panel{}, errMessage
	}

	panel := Panel{}
	for rows.Next() {
		result := PanelDefinitionEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return Panel{}, errMessage
		}
		panel.Rows = append(panel.Rows, PanelRow{
			Mass:   result.Mass,
			Target: result.Target,
			Start:  result.Start,
			Stop:   result.Stop,
		})
	}
	return panel, nil
}
