// Generate writes sample parquet files for trying parseq by hand:
//
//	cd testdata && go run generate.go
//	parseq --threshold 1000 --where "score > 90" --sort score:desc employees.parquet
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/parquet-go/parquet-go"
)

type Employee struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Age    int32   `parquet:"age"`
	Dept   string  `parquet:"dept"`
	Active bool    `parquet:"active"`
	Score  float64 `parquet:"score"`
}

var depts = []string{"eng", "ops", "sales", "support"}

func write[T any](path string, rows []T) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Generated %s with %d rows", path, len(rows))
}

func main() {
	write("simple.parquet", []Employee{
		{ID: 1, Name: "alice", Age: 30, Dept: "eng", Active: true, Score: 95.5},
		{ID: 2, Name: "bob", Age: 25, Dept: "ops", Active: false, Score: 82.3},
		{ID: 3, Name: "charlie", Age: 35, Dept: "eng", Active: true, Score: 88.7},
		{ID: 4, Name: "diana", Age: 28, Dept: "sales", Active: true, Score: 91.2},
		{ID: 5, Name: "eve", Age: 42, Dept: "support", Active: false, Score: 76.8},
	})

	// Large enough to cross the default single-thread threshold
	const n = 50000
	rows := make([]Employee, n)
	for i := range rows {
		id := i + 1
		rows[i] = Employee{
			ID:     int64(id),
			Name:   fmt.Sprintf("emp%05d", id),
			Age:    int32(20 + (id*7)%45),
			Dept:   depts[id%len(depts)],
			Active: id%5 != 0,
			Score:  float64((id*37)%1000) / 10,
		}
	}
	write("employees.parquet", rows)
}
