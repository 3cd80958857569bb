package harness

import (
	"fmt"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/table"
	"github.com/ajitpratap0/datatypes/pkg/table/check"
	"github.com/ajitpratap0/datatypes/pkg/table/convert"
	"github.com/ajitpratap0/datatypes/pkg/table/examples"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

// buildCases derives every case from the registry, in key order
func buildCases() []Case {
	var cases []Case
	keys := examples.Keys()

	for _, k := range keys {
		flag, _ := examples.LossyFlag(k)
		ex, _ := examples.Get(k)

		if ex.Representable() {
			cases = append(cases, checkCase(k))
		} else {
			cases = append(cases, absentCase(k))
		}

		if flag != examples.Lossless {
			continue
		}
		for _, target := range mtype.OfSciType(k.SciType) {
			if target == k.MType {
				continue
			}
			cases = append(cases, conversionCase(k, target))

			targetFlag, ok := examples.LossyFlag(examples.Key{MType: target, SciType: k.SciType, Index: k.Index})
			if ok && targetFlag != examples.LossinessAbsent {
				cases = append(cases, lossinessCase(k, target, targetFlag))
			}
		}
	}

	for _, index := range examples.Indices(mtype.SciTypeTable) {
		cases = append(cases, roundTripCase(index))
	}
	return cases
}

func checkCase(k examples.Key) Case {
	return Case{
		Kind:    KindCheck,
		Name:    fmt.Sprintf("check %s", k),
		SciType: k.SciType,
		Index:   k.Index,
		From:    k.MType,
		run: func() error {
			data, err := examples.Lookup(k)
			if err != nil {
				return err
			}
			defer convert.Release(data)

			meta, err := check.Check(data, k.MType)
			if err != nil {
				return err
			}
			if meta.IsEmpty {
				return errors.Newf(errors.ErrorTypeValidation, "example %s is empty", k)
			}
			return nil
		},
	}
}

func absentCase(k examples.Key) Case {
	return Case{
		Kind:    KindAbsent,
		Name:    fmt.Sprintf("absent %s", k),
		SciType: k.SciType,
		Index:   k.Index,
		From:    k.MType,
		run: func() error {
			ex, _ := examples.Get(k)
			if data := ex.Data(); data != nil {
				return errors.Newf(errors.ErrorTypeValidation, "absence marker %s holds data of type %T", k, data)
			}
			if flag, _ := examples.LossyFlag(k); flag != examples.LossinessAbsent {
				return errors.Newf(errors.ErrorTypeValidation, "absence marker %s has lossiness %s", k, flag)
			}
			_, err := examples.Lookup(k)
			if !errors.IsType(err, errors.ErrorTypeUnrepresentable) {
				return errors.Newf(errors.ErrorTypeValidation, "lookup of %s returned %v, expected unrepresentable", k, err)
			}
			return nil
		},
	}
}

// conversionCase converts a lossless example to target and compares with
// target's own example of the same index
func conversionCase(k examples.Key, target mtype.MType) Case {
	targetKey := examples.Key{MType: target, SciType: k.SciType, Index: k.Index}
	return Case{
		Kind:    KindConversion,
		Name:    fmt.Sprintf("convert %s -> %s", k, target),
		SciType: k.SciType,
		Index:   k.Index,
		From:    k.MType,
		To:      target,
		run: func() error {
			src, err := examples.Lookup(k)
			if err != nil {
				return err
			}
			defer convert.Release(src)

			want, ok := examples.Get(targetKey)
			if !ok {
				return errors.Newf(errors.ErrorTypeNotFound, "no example registered for %s", targetKey)
			}

			got, err := convert.Convert(src, k.MType, target)
			if !want.Representable() {
				if err == nil {
					convert.Release(got)
					return errors.Newf(errors.ErrorTypeValidation, "%s is absent but the conversion succeeded", targetKey)
				}
				if !errors.IsType(err, errors.ErrorTypeUnrepresentable) {
					return errors.Wrap(err, errors.ErrorTypeValidation, "expected an unrepresentable error")
				}
				return nil
			}
			if err != nil {
				return err
			}
			defer convert.Release(got)

			wantData := want.Data()
			defer convert.Release(wantData)
			if !convert.Equal(wantData, got) {
				return errors.Newf(errors.ErrorTypeValidation, "converted %s does not equal %s", k, targetKey)
			}
			return nil
		},
	}
}

// lossinessCase converts a lossless example to target and back. The source
// must be reproduced exactly when target is lossless and must not be when
// target is lossy.
func lossinessCase(k examples.Key, target mtype.MType, targetFlag examples.Lossiness) Case {
	return Case{
		Kind:    KindLossiness,
		Name:    fmt.Sprintf("lossiness %s -> %s -> %s", k, target, k.MType),
		SciType: k.SciType,
		Index:   k.Index,
		From:    k.MType,
		To:      target,
		run: func() error {
			src, err := examples.Lookup(k)
			if err != nil {
				return err
			}
			defer convert.Release(src)

			mid, err := convert.Convert(src, k.MType, target)
			if err != nil {
				return err
			}
			defer convert.Release(mid)

			back, err := convert.Convert(mid, target, k.MType)
			if err != nil {
				return err
			}
			defer convert.Release(back)

			same := convert.Equal(src, back)
			switch {
			case targetFlag == examples.Lossy && same:
				return errors.Newf(errors.ErrorTypeValidation, "%s is flagged lossy but the round trip kept everything", target)
			case targetFlag == examples.Lossless && !same:
				return errors.Newf(errors.ErrorTypeValidation, "%s is flagged lossless but the round trip changed %s", target, k)
			}
			return nil
		},
	}
}

// roundTripCase converts the data frame example to numpy2D and back; the
// values survive even though the column names do not
func roundTripCase(index int) Case {
	k := examples.Key{MType: mtype.PandasDataFrame, SciType: mtype.SciTypeTable, Index: index}
	return Case{
		Kind:    KindRoundTrip,
		Name:    fmt.Sprintf("roundtrip %s -> %s -> %s", k, mtype.Numpy2D, mtype.PandasDataFrame),
		SciType: k.SciType,
		Index:   index,
		From:    mtype.PandasDataFrame,
		To:      mtype.Numpy2D,
		run: func() error {
			src, err := examples.Lookup(k)
			if err != nil {
				return err
			}

			mid, err := convert.Convert(src, mtype.PandasDataFrame, mtype.Numpy2D)
			if err != nil {
				return err
			}
			back, err := convert.Convert(mid, mtype.Numpy2D, mtype.PandasDataFrame)
			if err != nil {
				return err
			}

			if !src.(*table.Frame).EqualValues(back.(*table.Frame)) {
				return errors.Newf(errors.ErrorTypeValidation, "values of %s changed in the round trip", k)
			}
			return nil
		},
	}
}
