package matching

import "github.com/google/uuid"

var (
	skillReact      = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	skillNode       = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	skillTypeScript = uuid.MustParse("00000000-0000-0000-0000-0000000000a3")
	skillPostgres   = uuid.MustParse("00000000-0000-0000-0000-0000000000a4")
	skillAWS        = uuid.MustParse("00000000-0000-0000-0000-0000000000a5")
	skillGo         = uuid.MustParse("00000000-0000-0000-0000-0000000000a6")

	projectID = uuid.MustParse("00000000-0000-0000-0000-0000000000f1")
)

func testCatalog() *Catalog {
	return NewCatalog([]Skill{
		{ID: skillReact, Name: "React", Category: "Frontend"},
		{ID: skillNode, Name: "Node.js", Category: "Backend"},
		{ID: skillTypeScript, Name: "TypeScript", Category: "Programming Language"},
		{ID: skillPostgres, Name: "PostgreSQL", Category: "Database"},
		{ID: skillAWS, Name: "AWS", Category: "Cloud"},
		{ID: skillGo, Name: "Go", Category: "Programming Language"},
	})
}

func candidateID(n int) uuid.UUID {
	var id uuid.UUID
	id[14] = byte(n >> 8)
	id[15] = byte(n)
	return id
}

func intPtr(v int) *int { return &v }

func mustExtract(rows ...RequirementRow) RequirementSet {
	set, err := Extract(projectID, rows, testCatalog())
	if err != nil {
		panic(err)
	}
	return set
}
