// Package analytics turns a tabular dataset of student records into a
// performance report.
//
// # Pipeline
//
// Every analysis runs four stages, strictly in order:
//
//  1. Validator: the dataset must have rows, every required column, and
//     numeric values in the score and attendance columns.
//  2. Metric computer: each student's average of the five subject scores,
//     rounded to two decimals.
//  3. Classifier: at-risk and top-performer cohorts, subject averages and
//     class-wide statistics.
//  4. Report builder: per-student summaries with letter grades and the
//     final Report.
//
// Stages are pure functions. Each call to Engine.Analyze builds its own
// derived structures, so one Engine may serve concurrent requests.
//
// # Rounding
//
// Every two-decimal value is rounded half away from zero.
//
// # Usage
//
//	engine, err := analytics.NewEngine()
//	if err != nil {
//	    return err
//	}
//	report, err := engine.Analyze(ctx, dataset)
//	var verr *analytics.ValidationError
//	if errors.As(err, &verr) {
//	    return verr.Messages()
//	}
package analytics
