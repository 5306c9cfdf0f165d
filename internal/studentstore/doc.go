// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package studentstore persists student records, student plans and
recommendation logs in BadgerDB.

# Key Layout

Every item lives under a partition key and a sort key joined by '#':

	DEGREE#{degree}#STUDENTS#{id}       student record (StudentItem)
	DEGREE#{degree}#STUDENT-PLAN#{id}   student plan (StudentItem)
	DEGREE#{degree}#LOGS#{id}           recommendation log (LogsItem)

Query scans one partition by sort key prefix and returns pages with an
opaque continuation token (base64 of the last key read). QueryAll follows
tokens with pages of DefaultPageSize items.

Values are JSON. Numbers are decoded as json.Number so decimal grades keep
their stored precision until records.ParseAttempts reads them.

# Engine Integration

BreakerProvider adapts the store to the recommendation engine: student reads
go through a gobreaker circuit breaker, served recommendations are appended
to the student's log.

	store, err := studentstore.Open(studentstore.Options{Path: "/data/students"})
	provider := studentstore.NewBreakerProvider(store, studentstore.DefaultBreakerConfig(), logger)
	engine.SetDataProvider(provider)
	engine.SetRecommendationLogger(provider)
*/
package studentstore
