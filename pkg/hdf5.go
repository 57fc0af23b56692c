package mibi

import (
	hdf5 "gonum.org/v1/hdf5"
)

// Row layouts for the QC tables. Field order defines the on-disk compound
// layout.
type RunInfoHDF5 struct {
	fov          [STRLEN]byte
	run_number   int32
	num_x        int32
	num_y        int32
	num_triggers int32
	num_frames   int32
}

type PulseStatsHDF5 struct {
	median_pulse_height int32
	mean_pp_pulses      float64
	total_counts        uint64
}

const STRLEN = 20

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

// createArray creates a fixed-length 1-D uint64 dataset. The QC products
// all have sizes known up front, so nothing here needs chunked storage.
func createArray(group *hdf5.Group, name string, length int) (*hdf5.Dataset, error) {
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(length)}, nil)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	dset, err := group.CreateDataset(name, hdf5.T_NATIVE_UINT64, space)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func createTable(file *hdf5.File, name string, datatype interface{}) (*hdf5.Table, error) {
	table, err := file.CreateTableFrom(name, datatype, 32, -1)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return table, nil
}
